package breakdown

// breakdownPrompt is the prompt template for splitting one task into
// subtasks. The model is asked for strict JSON, but the extraction
// pipeline tolerates non-compliance.
const breakdownPrompt = `You are a helpful productivity assistant. Break the following task into 3-5 concrete, actionable subtasks suitable for a beginner. Respond ONLY in strict JSON with the shape {"subtasks": string[]}.

Task: %q

Rules:
- 3 to 5 short subtasks
- No numbering, just plain strings
- No explanations, no extra fields, valid JSON only`

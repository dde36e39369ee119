package planner

import (
	"fmt"
	"strings"
	"time"

	"taskpilot/pkg/models"
)

// Placeholder is the fixed plan text shown when a planning request
// fails. The plan surface renders opaque text, so failures become a
// readable message instead of an error envelope.
const Placeholder = "There was an error generating a plan. Please try again."

// Layouts approximating a full date style and a short time style for
// the prompt's context lines. Locale-sensitive rendering of times inside
// the schedule is delegated to the model along with the locale tag.
const (
	dateTimeLayout = "Monday, January 2, 2006 at 3:04 PM"
	dateLayout     = "Monday, January 2, 2006"
)

// Request carries everything needed to frame a planning instruction.
type Request struct {
	// Tasks is the full task list; completed tasks and their subtasks are
	// excluded from the enumeration.
	Tasks []models.Task
	// Now is the caller's current time. Zero means time.Now().
	Now time.Time
	// TimeZone is an IANA zone name. Empty or unknown falls back to UTC.
	TimeZone string
	// Locale is a BCP 47 tag (e.g. "en-US") passed through for the model
	// to apply when formatting times. Empty defaults to "en-US".
	Locale string
}

// BuildPrompt produces the day-planner instruction. It embeds the
// formatted local time twice (a context line and a pre-rendered heading
// example), the pending-task enumeration, and the scheduling policy
// rules the model is expected to apply. The core transmits temporal
// context; it never validates the schedule the model returns.
func BuildPrompt(req Request) string {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	tz := req.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		tz = "UTC"
		loc = time.UTC
	}
	local := now.In(loc)

	locale := req.Locale
	if locale == "" {
		locale = "en-US"
	}

	var lines []string
	n := 0
	for _, t := range req.Tasks {
		if t.Completed {
			continue
		}
		n++
		lines = append(lines, fmt.Sprintf("%d. %s", n, t.Title))
	}
	taskLines := strings.Join(lines, "\n")
	if taskLines == "" {
		taskLines = "(none)"
	}

	return fmt.Sprintf(planPrompt,
		local.Format(dateLayout),
		locale, tz,
		local.Format(dateTimeLayout),
		tz,
		locale,
		taskLines,
	)
}

// planPrompt is the day-planner instruction template. The scheduling
// rules live in the instruction text: they are executed by the model,
// not by this component.
const planPrompt = `You are an expert day planner. Consider the list of pending tasks and produce a concise plan.

Return strictly in well-structured GitHub-Flavored Markdown with:
- A top-level heading for the plan date, e.g., "Today's Plan (%s)" or "Tomorrow's Plan (DATE)"
- For each item: a numbered list entry with a bolded title, a short reasoning, and a time estimate in minutes
- Under each item, include a sub-list for schedule blocks (local time ranges)
- Use blank lines between major sections for readability

Scheduling rules:
- Use the provided local context strictly. Do NOT schedule anything in the past.
- If current local time is earlier than typical work hours, start at the nearest reasonable start time.
- If current local time has already passed part of the day, start at the next quarter-hour at or after the current time.
- If the current local time is late (after 8:00 PM local), plan for tomorrow instead, starting around 9:00 AM local, and set the heading to "Tomorrow's Plan".
- Use the user's locale %s and time zone %s when formatting times (AM/PM if applicable).

Context:
- Current datetime: %s
- Time zone: %s
- Locale: %s

Pending Tasks:
%s`

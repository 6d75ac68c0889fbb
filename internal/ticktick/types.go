package ticktick

import (
	"time"
)

// Priority is the TickTick task priority. The API encodes it as the
// numeric values below; everything else is treated as PriorityNone.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 5
)

// String returns a human-readable priority name
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "none"
	}
}

// Status is the TickTick task status
type Status int

const (
	StatusOpen      Status = 0
	StatusCompleted Status = 2
)

// Project represents a TickTick project (a task container)
type Project struct {
	ID     string
	Name   string
	Closed bool
	Kind   string // "TASK" or "NOTE"
}

// ChecklistItem represents a subtask within a task
type ChecklistItem struct {
	ID        string
	Title     string
	Completed bool
	AllDay    bool
	StartDate *time.Time
}

// Task represents a TickTick task
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Content   string
	Desc      string
	AllDay    bool
	DueDate   *time.Time
	StartDate *time.Time
	TimeZone  string
	Priority  Priority
	Status    Status
	Items     []ChecklistItem // Subtasks, in source order
}

// ProjectData is the combined payload of a single project and its
// uncompleted tasks as returned by the project data endpoint
type ProjectData struct {
	Project Project
	Tasks   []Task
}

// Wire types mirror the JSON the Open API returns. They are converted
// into the exported types above and never leave this package.

type projectJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
	Kind   string `json:"kind"`
}

type checklistItemJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    int    `json:"status"` // 0 = normal, 1 = completed
	IsAllDay  bool   `json:"isAllDay"`
	StartDate string `json:"startDate"`
}

type taskJSON struct {
	ID        string              `json:"id"`
	ProjectID string              `json:"projectId"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Desc      string              `json:"desc"`
	IsAllDay  bool                `json:"isAllDay"`
	DueDate   string              `json:"dueDate"`
	StartDate string              `json:"startDate"`
	TimeZone  string              `json:"timeZone"`
	Priority  int                 `json:"priority"`
	Status    int                 `json:"status"` // 0 = normal, 2 = completed
	Items     []checklistItemJSON `json:"items"`
}

type projectDataJSON struct {
	Project projectJSON `json:"project"`
	Tasks   []taskJSON  `json:"tasks"`
}

// apiTimeLayouts are the date formats the API has been observed to
// return. TickTick usually sends "2006-01-02T15:04:05.000+0000" but
// plain RFC3339 and bare dates show up as well.
var apiTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// bareDateLayout carries no zone at all; it is interpreted as local
// wall time so the date stays on its nominal day for the user
const bareDateLayout = "2006-01-02"

// parseAPITime parses an API date string, returning nil for empty or
// unparseable values rather than failing the whole task
func parseAPITime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range apiTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if t, err := time.ParseInLocation(bareDateLayout, s, time.Local); err == nil {
		return &t
	}
	return nil
}

// toProject converts an API project to our Project type
func toProject(p projectJSON) Project {
	return Project{
		ID:     p.ID,
		Name:   p.Name,
		Closed: p.Closed,
		Kind:   p.Kind,
	}
}

// toTask converts an API task to our Task type
func toTask(t taskJSON) Task {
	result := Task{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Content:   t.Content,
		Desc:      t.Desc,
		AllDay:    t.IsAllDay,
		DueDate:   parseAPITime(t.DueDate),
		StartDate: parseAPITime(t.StartDate),
		TimeZone:  t.TimeZone,
		Priority:  toPriority(t.Priority),
		Status:    toStatus(t.Status),
	}

	if len(t.Items) > 0 {
		result.Items = make([]ChecklistItem, len(t.Items))
		for i, item := range t.Items {
			result.Items[i] = ChecklistItem{
				ID:        item.ID,
				Title:     item.Title,
				Completed: item.Status == 1,
				AllDay:    item.IsAllDay,
				StartDate: parseAPITime(item.StartDate),
			}
		}
	}

	return result
}

func toPriority(p int) Priority {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(p)
	default:
		return PriorityNone
	}
}

func toStatus(s int) Status {
	if Status(s) == StatusCompleted {
		return StatusCompleted
	}
	return StatusOpen
}

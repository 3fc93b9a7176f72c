package content

import (
	"fmt"
	"strings"
	"time"
)

// Action is an operation a resource policy grants.
type Action int

const (
	ActionRead                 Action = 0
	ActionWrite                Action = 1
	ActionDelete               Action = 2
	ActionAdd                  Action = 3
	ActionRemove               Action = 4
	ActionWorkflowStep1        Action = 5
	ActionWorkflowStep2        Action = 6
	ActionWorkflowStep3        Action = 7
	ActionWorkflowAbort        Action = 8
	ActionDefaultBitstreamRead Action = 9
	ActionDefaultItemRead      Action = 10
	ActionAdmin                Action = 11
	ActionWithdrawnRead        Action = 12
)

var actionNames = map[Action]string{
	ActionRead:                 "READ",
	ActionWrite:                "WRITE",
	ActionDelete:               "DELETE",
	ActionAdd:                  "ADD",
	ActionRemove:               "REMOVE",
	ActionWorkflowStep1:        "WORKFLOW_STEP_1",
	ActionWorkflowStep2:        "WORKFLOW_STEP_2",
	ActionWorkflowStep3:        "WORKFLOW_STEP_3",
	ActionWorkflowAbort:        "WORKFLOW_ABORT",
	ActionDefaultBitstreamRead: "DEFAULT_BITSTREAM_READ",
	ActionDefaultItemRead:      "DEFAULT_ITEM_READ",
	ActionAdmin:                "ADMIN",
	ActionWithdrawnRead:        "WITHDRAWN_READ",
}

// String returns the action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTION(%d)", int(a))
}

// ParseAction parses an action name case-insensitively.
func ParseAction(s string) (Action, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %q", s)
}

// Policy types.
const (
	PolicyTypeSubmission = "TYPE_SUBMISSION"
	PolicyTypeWorkflow   = "TYPE_WORKFLOW"
	PolicyTypeInherited  = "TYPE_INHERITED"
	PolicyTypeCustom     = "TYPE_CUSTOM"
)

// DateLayout is the layout of policy start and end dates.
const DateLayout = "2006-01-02"

// ResourcePolicy grants an action on an object to a group or an eperson.
type ResourcePolicy struct {
	ID          int
	Object      Object
	Action      Action
	Group       *Group
	EPerson     *EPerson
	StartDate   time.Time
	EndDate     time.Time
	Name        string
	Description string
	PolicyType  string
}

// IsActive reports whether now lies within the policy's date range. A zero
// start or end date leaves that side open.
func (p *ResourcePolicy) IsActive(now time.Time) bool {
	if !p.StartDate.IsZero() && now.Before(p.StartDate) {
		return false
	}
	if !p.EndDate.IsZero() && now.After(p.EndDate) {
		return false
	}
	return true
}

// ValidDateRange reports whether start does not fall after end.
func (p *ResourcePolicy) ValidDateRange() bool {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return true
	}
	return !p.StartDate.After(p.EndDate)
}

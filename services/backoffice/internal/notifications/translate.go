package notifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/staffops/pkg/event"
)

var ErrMalformedEvent = errors.New("malformed event")

type envelope struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromEvent turns a staff event into a notification. Events nobody needs to
// be told about return nil without error.
func FromEvent(msg []byte) (*Notification, error) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	var (
		n   *Notification
		err error
		id  string
	)
	switch env.EventType {
	case event.EventTaskCompleted:
		n, id, err = fromTaskCompleted(msg)
	case event.EventTaskSubmissionFailed:
		n, id, err = fromSubmissionFailed(msg)
	case event.EventInventoryLevelChanged:
		n, id, err = fromInventoryLevel(msg)
	case event.EventRequestCreated, event.EventRequestReview:
		n, id, err = fromRequest(msg)
	case event.EventFinanceReportSubmitted:
		n, id, err = fromFinanceReport(msg)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, env.EventType, err)
	}
	if n == nil {
		return nil, nil
	}

	if env.OccurredAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	} else {
		n.CreatedAt = env.OccurredAt.UTC()
	}
	n.SourceKey = fmt.Sprintf("%s:%s:%d", env.EventType, id, env.OccurredAt.UnixNano())
	return n, nil
}

func fromTaskCompleted(msg []byte) (*Notification, string, error) {
	var evt event.TaskCompletedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return nil, "", err
	}
	who := evt.EmployeeName
	if who == "" {
		who = evt.ConfirmedName
	}
	n := New(TypeTaskCompleted, "Task Completed", fmt.Sprintf("%s completed %q", who, evt.TaskName), time.Time{})
	n.TaskID = evt.TaskID
	n.TaskName = evt.TaskName
	n.EmployeeName = who
	n.SubjectID = evt.SubmissionID
	return n, evt.SubmissionID, nil
}

func fromSubmissionFailed(msg []byte) (*Notification, string, error) {
	var evt event.TaskSubmissionFailedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return nil, "", err
	}
	text := fmt.Sprintf("Photo upload for %q failed after %d attempts", evt.TaskName, evt.Attempts)
	if evt.Retryable {
		text += "; the employee can retry"
	}
	n := New(TypeTaskSubmissionFailed, "Task Submission Failed", text, time.Time{})
	n.TaskID = evt.TaskID
	n.TaskName = evt.TaskName
	n.SubjectID = evt.SessionID
	return n, evt.SessionID, nil
}

func fromInventoryLevel(msg []byte) (*Notification, string, error) {
	var evt event.InventoryLevelChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return nil, "", err
	}

	var kind, title string
	switch evt.Status {
	case "low":
		kind, title = TypeInventoryLow, "Low Stock"
	case "critical":
		kind, title = TypeInventoryCritical, "Critical Stock"
	default:
		return nil, "", nil
	}

	text := fmt.Sprintf("%s at %s is %s: %d %s left", evt.ProductName, evt.Station, evt.Status, evt.Delivered, evt.Unit)
	n := New(kind, title, text, time.Time{})
	n.SubjectID = evt.ItemID
	return n, evt.ItemID + ":" + evt.Status, nil
}

func fromRequest(msg []byte) (*Notification, string, error) {
	var evt event.RequestEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return nil, "", err
	}

	who := evt.ManagerName
	if who == "" {
		who = "A manager"
	}

	var n *Notification
	switch {
	case evt.EventType == event.EventRequestCreated:
		n = New(TypeRequestCreated, "New Request",
			fmt.Sprintf("%s requested %d x %s (%s priority)", who, evt.Quantity, evt.ItemName, evt.Priority), time.Time{})
	case evt.Status == "approved":
		n = New(TypeRequestApproved, "Request Approved",
			fmt.Sprintf("Request for %d x %s was approved", evt.Quantity, evt.ItemName), time.Time{})
	case evt.Status == "rejected":
		n = New(TypeRequestRejected, "Request Rejected",
			fmt.Sprintf("Request for %d x %s was rejected", evt.Quantity, evt.ItemName), time.Time{})
	default:
		return nil, "", nil
	}
	n.SubjectID = evt.RequestID
	return n, evt.RequestID + ":" + evt.Status, nil
}

func fromFinanceReport(msg []byte) (*Notification, string, error) {
	var evt event.FinanceReportEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return nil, "", err
	}
	who := evt.SubmittedBy
	if who == "" {
		who = "A manager"
	}
	n := New(TypeFinanceReport, "Financial Report Submitted",
		fmt.Sprintf("%s submitted the %s report, daily earnings %s", who, evt.ShiftDate, evt.DailyEarnings), time.Time{})
	n.SubjectID = evt.ReportID
	return n, evt.ReportID, nil
}

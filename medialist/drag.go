package medialist

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// DragEnd is the end of a drag gesture. Destination is nil when the drop was cancelled.
type DragEnd struct {
	Source      uuid.UUID
	Destination *uuid.UUID
}

// PositionalDragEnd addresses the drag by list position.
type PositionalDragEnd struct {
	From int
	To   *int
}

// Controller turns drag gestures into reorders of a List.
type Controller struct {
	list *List
}

func NewController(list *List) *Controller {
	return &Controller{list: list}
}

// HandleDragEnd moves the source entry to the destination entry's position.
// Cancelled drops and drops on self report moved == false.
func (c *Controller) HandleDragEnd(ev DragEnd) (bool, error) {
	if ev.Destination == nil || *ev.Destination == ev.Source {
		return false, nil
	}
	from := c.list.IndexOf(ev.Source)
	if from < 0 {
		return false, fmt.Errorf("%w: source %s", ErrUnknownEntry, ev.Source)
	}
	to := c.list.IndexOf(*ev.Destination)
	if to < 0 {
		return false, fmt.Errorf("%w: destination %s", ErrUnknownEntry, *ev.Destination)
	}
	if err := c.list.Reorder(from, to); err != nil {
		return false, err
	}
	return true, nil
}

// HandlePositionalDragEnd is HandleDragEnd for index-addressed callers.
func (c *Controller) HandlePositionalDragEnd(ev PositionalDragEnd) (bool, error) {
	if ev.To == nil || *ev.To == ev.From {
		return false, nil
	}
	if err := c.list.Reorder(ev.From, *ev.To); err != nil {
		return false, err
	}
	return true, nil
}

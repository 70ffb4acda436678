// Package gallery implements the lightbox state machine for one project's
// ordered images: closed, or open on an index in [0, imageCount).
package gallery

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("gallery index out of range")
	ErrNotOpen         = errors.New("gallery is not open")
)

// State is a snapshot of the controller. Index is meaningful only when Open.
type State struct {
	ItemID     int  `json:"itemId"`
	ImageCount int  `json:"imageCount"`
	Open       bool `json:"open"`
	Index      int  `json:"index"`
}

// Controller owns the open index for the images of a single item. It is not
// safe for concurrent use; callers serialise access per visitor session.
type Controller struct {
	itemID     int
	imageCount int
	open       bool
	index      int
}

// New returns a closed controller over imageCount images.
func New(itemID, imageCount int) *Controller {
	if imageCount < 0 {
		imageCount = 0
	}
	return &Controller{itemID: itemID, imageCount: imageCount}
}

// Bind points the controller at an item. A different item always closes the
// gallery so an index from the old image list never survives.
func (c *Controller) Bind(itemID, imageCount int) {
	if itemID == c.itemID && imageCount == c.imageCount {
		return
	}
	c.itemID = itemID
	if imageCount < 0 {
		imageCount = 0
	}
	c.imageCount = imageCount
	c.Close()
}

func (c *Controller) State() State {
	return State{ItemID: c.itemID, ImageCount: c.imageCount, Open: c.open, Index: c.index}
}

// Open shows image i. Opening while already open moves to i.
func (c *Controller) Open(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.open = true
	c.index = i
	return nil
}

// Close is idempotent.
func (c *Controller) Close() {
	c.open = false
	c.index = 0
}

func (c *Controller) Next() error {
	if !c.open {
		return ErrNotOpen
	}
	c.index = (c.index + 1) % c.imageCount
	return nil
}

func (c *Controller) Prev() error {
	if !c.open {
		return ErrNotOpen
	}
	c.index = (c.index - 1 + c.imageCount) % c.imageCount
	return nil
}

// Jump moves an open gallery to image i. The range is checked first, so an
// invalid index reports ErrIndexOutOfRange whether or not the gallery is open.
func (c *Controller) Jump(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	if !c.open {
		return ErrNotOpen
	}
	c.index = i
	return nil
}

func (c *Controller) check(i int) error {
	if i < 0 || i >= c.imageCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, c.imageCount)
	}
	return nil
}

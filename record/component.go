package record

import "github.com/hillu/libldm-go/ldmerr"

const componentHasStripeInfo = 0x10

// ComponentType is the component's storage shape (spec.md DATA MODEL).
type ComponentType uint8

const (
	ComponentStriped ComponentType = 1
	ComponentSpanned ComponentType = 2
	ComponentRaid    ComponentType = 3
)

// Component is a decoded component record (spec.md §4.7).
type Component struct {
	ID         uint32
	Name       string
	Type       ComponentType
	NParts     uint32
	ParentID   uint32
	StripeSize uint64
	NColumns   uint32
	HasStripe  bool
}

func decodeComponent(h header, body []byte) (*Component, error) {
	if h.Revision != 3 {
		return nil, ldmerr.New(ldmerr.KindNotSupported, "component record revision %d unsupported", h.Revision)
	}

	c := newCursor(body)

	id, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	name, err := c.varString()
	if err != nil {
		return nil, err
	}
	if err := c.varSkip(); err != nil { // volume-state
		return nil, err
	}
	typeByte, err := c.byte()
	if err != nil {
		return nil, err
	}
	typ := ComponentType(typeByte)
	switch typ {
	case ComponentStriped, ComponentSpanned, ComponentRaid:
	default:
		return nil, ldmerr.New(ldmerr.KindNotSupported, "component type 0x%02x unsupported", typeByte)
	}
	if err := c.skip(4); err != nil {
		return nil, err
	}
	nParts, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	if err := c.skip(8 + 8); err != nil {
		return nil, err
	}
	parentID, err := c.varInt32()
	if err != nil {
		return nil, err
	}
	if err := c.skip(1); err != nil {
		return nil, err
	}

	comp := &Component{
		ID:       id,
		Name:     name,
		Type:     typ,
		NParts:   nParts,
		ParentID: parentID,
	}

	if h.Flags&componentHasStripeInfo != 0 {
		stripeSize, err := c.varInt64()
		if err != nil {
			return nil, err
		}
		nColumns, err := c.varInt32()
		if err != nil {
			return nil, err
		}
		comp.StripeSize = stripeSize
		comp.NColumns = nColumns
		comp.HasStripe = true
	}

	return comp, nil
}

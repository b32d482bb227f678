package property

// Cursor walks a fixed list of properties once, front to back.
//
// The zero position is before the first entry; call Next to advance:
//
//	for c := store.Cursor(); c.Next(); {
//	    p := c.Property()
//	}
type Cursor struct {
	props []Property
	pos   int
}

// NewCursor creates a cursor over props. The slice must not be modified afterwards.
func NewCursor(props []Property) *Cursor {
	return &Cursor{props: props, pos: -1}
}

// Next advances to the next property and reports whether there is one.
func (c *Cursor) Next() bool {
	if c.pos < len(c.props) {
		c.pos++
	}

	return c.pos < len(c.props)
}

// Valid reports whether the cursor is positioned on a property.
func (c *Cursor) Valid() bool {
	return c.pos >= 0 && c.pos < len(c.props)
}

// Property returns the current property. It must only be called while Valid.
func (c *Cursor) Property() Property {
	return c.props[c.pos]
}

// Len returns the total number of properties the cursor walks.
func (c *Cursor) Len() int {
	return len(c.props)
}

package magic

// chunk is a contiguous range of the original text together with the text
// inserted around it. Chunks form a doubly linked list in output order.
type chunk struct {
	start, end uint32
	original   string

	intro, outro string
	content      string

	storeName bool
	edited    bool

	previous, next *chunk
}

func newChunk(start, end uint32, content string) *chunk {
	return &chunk{
		start:    start,
		end:      end,
		original: content,
		content:  content,
	}
}

// contains reports whether index lies strictly inside the chunk.
func (c *chunk) contains(index uint32) bool {
	return c.start < index && index < c.end
}

func (c *chunk) appendLeft(content string)   { c.outro += content }
func (c *chunk) appendRight(content string)  { c.intro += content }
func (c *chunk) prependLeft(content string)  { c.outro = content + c.outro }
func (c *chunk) prependRight(content string) { c.intro = content + c.intro }

func (c *chunk) edit(content string, storeName, contentOnly bool) {
	c.content = content
	if !contentOnly {
		c.intro = ""
		c.outro = ""
	}
	c.storeName = storeName
	c.edited = true
}

// split cuts the chunk at index and returns the new right half.
func (c *chunk) split(index uint32) *chunk {
	sliceIndex := index - c.start
	originalBefore := c.original[:sliceIndex]
	originalAfter := c.original[sliceIndex:]

	c.original = originalBefore

	right := newChunk(index, c.end, originalAfter)
	right.outro = c.outro
	c.outro = ""
	c.end = index

	if c.edited {
		// only zero-length edited chunks are ever split
		right.edit("", false, false)
		c.content = ""
	} else {
		c.content = originalBefore
	}

	right.next = c.next
	if right.next != nil {
		right.next.previous = right
	}
	right.previous = c
	c.next = right
	return right
}

func (c *chunk) String() string {
	return c.intro + c.content + c.outro
}

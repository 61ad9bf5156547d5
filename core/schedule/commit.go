package schedule

import (
	"runtime"
	"strings"
)

// Output below this size is committed in a single write; chunking only pays
// off for genuinely large documents.
const commitSyncThreshold = 100000

// Nodes committed in the first batch of a chunked commit, so the ToC becomes
// usable while the remaining tables are still streaming.
const commitFirstBatch = 10

// Sink receives committed HTML. An HTTP handler typically appends to the
// response and flushes.
type Sink interface {
	Append(html string) error
}

// Committer writes assembled HTML to a Sink, either in one synchronous write
// or incrementally: the first batch of top-level nodes immediately (firing
// OnFirstChunk), then one node at a time with a cooperative yield between
// appends so other work can interleave.
type Committer struct {
	Sink Sink

	// OnFirstChunk fires as soon as enough output exists for the ToC to be
	// interactive. OnDone fires when everything is committed. Either may be nil.
	OnFirstChunk func()
	OnDone       func()
}

func (c *Committer) firstChunk() {
	if c.OnFirstChunk != nil {
		c.OnFirstChunk()
	}
}

func (c *Committer) done() {
	if c.OnDone != nil {
		c.OnDone()
	}
}

// Commit writes html to the sink. Small output commits synchronously with
// both callbacks firing immediately; large output streams node by node.
func (c *Committer) Commit(html string) error {
	if len(html) < commitSyncThreshold {
		if err := c.Sink.Append(html); err != nil {
			return err
		}
		c.firstChunk()
		c.done()
		return nil
	}

	nodes := SplitTopLevelNodes(html)

	first := commitFirstBatch
	if first > len(nodes) {
		first = len(nodes)
	}
	if err := c.Sink.Append(strings.Join(nodes[:first], "")); err != nil {
		return err
	}
	c.firstChunk()

	for _, node := range nodes[first:] {
		if err := c.Sink.Append(node); err != nil {
			return err
		}
		// Voluntary yield between appends; the loop is cooperative, not
		// truly asynchronous.
		runtime.Gosched()
	}
	c.done()
	return nil
}

// voidTags never carry a closing tag and must not affect nesting depth.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// SplitTopLevelNodes cuts an HTML fragment at top-level node boundaries.
// Text runs between top-level elements stick to the following node. The
// splitter never cuts inside a tag or an open element.
func SplitTopLevelNodes(html string) []string {
	var nodes []string
	depth := 0
	start := 0

	i := 0
	for i < len(html) {
		if html[i] != '<' {
			i++
			continue
		}
		end := strings.IndexByte(html[i:], '>')
		if end < 0 {
			break
		}
		end += i
		tag := html[i+1 : end]

		switch {
		case strings.HasPrefix(tag, "/"):
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				nodes = append(nodes, html[start:end+1])
				start = end + 1
			}
		case strings.HasSuffix(tag, "/") || voidTags[tagName(tag)]:
			if depth == 0 {
				nodes = append(nodes, html[start:end+1])
				start = end + 1
			}
		default:
			depth++
		}
		i = end + 1
	}

	if start < len(html) {
		if len(nodes) > 0 && depth == 0 && strings.TrimSpace(html[start:]) == "" {
			nodes[len(nodes)-1] += html[start:]
		} else {
			nodes = append(nodes, html[start:])
		}
	}
	return nodes
}

func tagName(tag string) string {
	tag = strings.TrimPrefix(tag, "/")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ' ' || tag[i] == '\t' || tag[i] == '\n' {
			return strings.ToLower(tag[:i])
		}
	}
	return strings.ToLower(tag)
}

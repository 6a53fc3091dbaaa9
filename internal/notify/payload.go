package notify

// Wire shapes for the Slack incoming webhook API, restricted to the
// Block Kit subset the alerts use.

type payload struct {
	// Channel overrides the webhook's default channel when set.
	Channel     string       `json:"channel,omitempty"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	Color  string  `json:"color"`
	Blocks []block `json:"blocks"`
}

// block is a union of the block kinds used: "header" and plain
// "section" blocks set Text, field sections set Fields, and "context"
// and "actions" blocks set Elements.
type block struct {
	Type     string      `json:"type"`
	Text     *blockText  `json:"text,omitempty"`
	Fields   []blockText `json:"fields,omitempty"`
	Elements []any       `json:"elements,omitempty"`
}

type blockText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type button struct {
	Type     string    `json:"type"`
	Text     blockText `json:"text"`
	Style    string    `json:"style"`
	ActionID string    `json:"action_id"`
}

const (
	alertColor    = "#FF0000"
	recoveryColor = "#28A745"
)

// ResolveActionID identifies the resolve button in Slack interaction
// callbacks.
const ResolveActionID = "resolve_nameserver_change"

package discord

// Interaction response types.
const (
	ResponsePong                     = 1
	ResponseChannelMessageWithSource = 4
)

// Response flags.
const (
	FlagEphemeral      = 1 << 6
	FlagIsComponentsV2 = 1 << 15
)

// Component types (components v2).
const (
	ComponentActionRow   = 1
	ComponentButton      = 2
	ComponentTextDisplay = 10
)

// Button styles.
const (
	ButtonPrimary = 1
	ButtonDanger  = 4
)

type Response struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Flags      int         `json:"flags,omitempty"`
	Components []Component `json:"components,omitempty"`
}

type Component struct {
	Type       int         `json:"type"`
	Content    string      `json:"content,omitempty"`
	CustomID   string      `json:"custom_id,omitempty"`
	Label      string      `json:"label,omitempty"`
	Style      int         `json:"style,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Pong answers the Discord PING handshake.
func Pong() Response {
	return Response{Type: ResponsePong}
}

// TextMessage is a plain channel message rendered as a components-v2 text
// display block.
func TextMessage(content string) Response {
	return Response{
		Type: ResponseChannelMessageWithSource,
		Data: &ResponseData{
			Flags: FlagIsComponentsV2,
			Components: []Component{
				{Type: ComponentTextDisplay, Content: content},
			},
		},
	}
}

// EphemeralText is a channel message only the invoker sees.
func EphemeralText(content string) Response {
	r := TextMessage(content)
	r.Data.Flags |= FlagEphemeral
	return r
}

// TextWithButton is a channel message with a single button underneath.
func TextWithButton(content, customID, label string, style int) Response {
	r := TextMessage(content)
	r.Data.Components = append(r.Data.Components, Component{
		Type: ComponentActionRow,
		Components: []Component{
			{Type: ComponentButton, CustomID: customID, Label: label, Style: style},
		},
	})
	return r
}

// TextEdit is the body of a webhook-message PATCH replacing the message
// content with a single text display block.
func TextEdit(content string) ResponseData {
	return ResponseData{
		Components: []Component{
			{Type: ComponentTextDisplay, Content: content},
		},
	}
}

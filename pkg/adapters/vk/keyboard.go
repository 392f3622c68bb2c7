package vk

import "encoding/json"

type keyboardAction struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

type keyboardButton struct {
	Action keyboardAction `json:"action"`
}

type keyboard struct {
	Inline  bool               `json:"inline"`
	Buttons [][]keyboardButton `json:"buttons"`
}

// BuildKeyboard renders an inline keyboard with one text button per option,
// each on its own row. Every button's payload is {payloadKey: option}, which
// is how the classifier recognizes the answer on the way back in.
func BuildKeyboard(options []string, payloadKey string) (string, error) {
	kb := keyboard{
		Inline:  true,
		Buttons: make([][]keyboardButton, 0, len(options)),
	}
	for _, option := range options {
		payload, err := json.Marshal(map[string]string{payloadKey: option})
		if err != nil {
			return "", err
		}
		kb.Buttons = append(kb.Buttons, []keyboardButton{{
			Action: keyboardAction{
				Type:    "text",
				Label:   option,
				Payload: string(payload),
			},
		}})
	}

	data, err := json.Marshal(kb)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

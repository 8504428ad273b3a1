package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Notifier is the operator-visible channel for reconciliation cases, most
// importantly a failed booking insert after the guest has already been
// charged. Those are never retried automatically; a human follows up.
type Notifier interface {
	Alert(subject string, fields map[string]string)
}

// OperatorNotifier posts alerts to a webhook URL (e.g. a Slack incoming
// webhook). Without a URL it still logs, so the reconciliation trail is never
// silently dropped.
type OperatorNotifier struct {
	WebhookURL string
	Client     *http.Client
}

func NewOperatorNotifier(webhookURL string) *OperatorNotifier {
	return &OperatorNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{},
	}
}

func (n *OperatorNotifier) Alert(subject string, fields map[string]string) {
	log.Printf("OPERATOR ALERT: %s %v", subject, fields)

	if n.WebhookURL == "" {
		return
	}

	text := subject
	for k, v := range fields {
		text += fmt.Sprintf("\n%s: %s", k, v)
	}
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		log.Printf("operator alert marshal failed: %v", err)
		return
	}

	resp, err := n.Client.Post(n.WebhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("operator alert post failed: %v", err)
		return
	}
	resp.Body.Close()
}

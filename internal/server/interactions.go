package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zonewatch/zonewatch/internal/notify"
)

// interactionPayload is the subset of the Slack interaction callback
// this handler reads.
type interactionPayload struct {
	Type    string              `json:"type"`
	Actions []interactionAction `json:"actions"`
	Message struct {
		Attachments []interactionAttachment `json:"attachments"`
	} `json:"message"`
}

type interactionAction struct {
	ActionID string `json:"action_id"`
}

type interactionAttachment struct {
	Blocks []interactionBlock `json:"blocks"`
}

type interactionBlock struct {
	Fields []interactionField `json:"fields"`
}

type interactionField struct {
	Text string `json:"text"`
}

type resolutionAck struct {
	ResponseType   string `json:"response_type"`
	DeleteOriginal bool   `json:"delete_original"`
	Text           string `json:"text"`
}

// interactions handles Slack button clicks. Slack posts the
// interaction as a form with the JSON callback in the payload field.
func (h *handlers) interactions(w http.ResponseWriter, r *http.Request) {
	rawPayload := r.FormValue("payload")
	if rawPayload == "" {
		h.logger.Warn().Msg("interaction_without_payload")
		httpError(w, http.StatusBadRequest, "No payload received")
		return
	}

	var payload interactionPayload
	err := json.Unmarshal([]byte(rawPayload), &payload)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if payload.Type != "block_actions" || len(payload.Actions) == 0 ||
		payload.Actions[0].ActionID != notify.ResolveActionID {
		httpError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	domain := domainFromInteraction(payload)
	if domain == "" {
		h.logger.Warn().Msg("interaction_domain_not_found")
		httpError(w, http.StatusBadRequest, "Domain not found")
		return
	}

	err = h.notifier.ResolveByDomain(r.Context(), domain)
	if err != nil {
		h.logger.Error().Err(err).Str("domain", domain).
			Msg("resolution_failed")
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info().Str("domain", domain).Msg("resolution_processed")
	respondJSON(w, http.StatusOK, resolutionAck{
		ResponseType:   "in_channel",
		DeleteOriginal: false,
		Text:           "✅ Resolution processed successfully",
	})
}

// domainFromInteraction finds the domain in the alert message the
// button belongs to, stored as the second line of the *Domain:* field.
func domainFromInteraction(payload interactionPayload) (domain string) {
	for _, attachment := range payload.Message.Attachments {
		for _, block := range attachment.Blocks {
			for _, field := range block.Fields {
				if !strings.Contains(field.Text, "*Domain:*") {
					continue
				}
				lines := strings.Split(field.Text, "\n")
				if len(lines) < 2 {
					continue
				}
				return strings.TrimSpace(lines[1])
			}
		}
	}
	return ""
}

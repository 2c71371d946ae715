package crm

import (
	"fmt"

	"github.com/NextMind-AI/leadsync/record"
	"github.com/rs/zerolog/log"
)

// DecodeLead builds a Lead from a raw record. Records without an id are rejected.
func DecodeLead(r record.Record) (Lead, error) {
	id, ok := r.ID()
	if !ok {
		return Lead{}, fmt.Errorf("lead record has no id: %s", r.Raw())
	}

	accountID, _ := r.AccountID()
	campaignID, _ := r.CampaignID()
	takeover, _ := r.Bool(record.ManualTakeoverAliases...)
	received, _ := r.Int(record.ReceivedCountAliases...)
	tags, _ := r.Strings(record.TagsAliases...)

	return Lead{
		ID:                   id,
		FirstName:            r.Text(record.FirstNameAliases...),
		LastName:             r.Text(record.LastNameAliases...),
		FullName:             r.Text(record.FullNameAliases...),
		Phone:                r.Text(record.PhoneAliases...),
		Email:                r.Text(record.EmailAliases...),
		AccountID:            accountID,
		CampaignID:           campaignID,
		ManualTakeover:       takeover,
		MessageCountReceived: received,
		Tags:                 tags,
	}, nil
}

// DecodeInteraction builds an Interaction from a raw record.
func DecodeInteraction(r record.Record) (Interaction, error) {
	id, ok := r.ID()
	if !ok {
		return Interaction{}, fmt.Errorf("interaction record has no id: %s", r.Raw())
	}
	leadID, ok := r.LeadID()
	if !ok {
		return Interaction{}, fmt.Errorf("interaction %d has no lead id", id)
	}

	accountID, _ := r.AccountID()
	campaignID, _ := r.CampaignID()
	isBump, _ := r.Bool(record.IsBumpAliases...)

	var bump *int64
	if n, ok := r.Int(record.BumpNumberAliases...); ok {
		bump = &n
	}

	return Interaction{
		ID:                   id,
		LeadID:               leadID,
		AccountID:            accountID,
		CampaignID:           campaignID,
		Direction:            parseDirection(r.Text(record.DirectionAliases...)),
		Content:              r.Text(record.ContentAliases...),
		Attachment:           r.Text(record.AttachmentAliases...),
		Status:               Status(r.Text(record.StatusAliases...)),
		Type:                 r.Text(record.MessageTypeAliases...),
		CreatedAt:            r.CreatedAt(),
		ConversationThreadID: r.Text(record.ThreadIDAliases...),
		BumpNumber:           bump,
		IsBump:               isBump,
		Who:                  r.Text(record.WhoAliases...),
	}, nil
}

func parseDirection(value string) Direction {
	switch value {
	case "Inbound", "inbound", "INBOUND":
		return Inbound
	case "Outbound", "outbound", "OUTBOUND":
		return Outbound
	}
	return Direction(value)
}

// DecodeLeads decodes a list response, skipping malformed rows.
func DecodeLeads(body []byte) ([]Lead, error) {
	records, err := record.List(body)
	if err != nil {
		return nil, err
	}
	leads := make([]Lead, 0, len(records))
	for _, r := range records {
		lead, err := DecodeLead(r)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping malformed lead record")
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// DecodeInteractions decodes a list response, skipping malformed rows.
func DecodeInteractions(body []byte) ([]Interaction, error) {
	records, err := record.List(body)
	if err != nil {
		return nil, err
	}
	interactions := make([]Interaction, 0, len(records))
	for _, r := range records {
		interaction, err := DecodeInteraction(r)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping malformed interaction record")
			continue
		}
		interactions = append(interactions, interaction)
	}
	return interactions, nil
}

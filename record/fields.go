package record

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Alias lists per logical field. Order is priority: snake_case first, camelCase next,
// PascalCase last.
var (
	IDAliases         = []string{"id", "Id", "ID"}
	AccountIDAliases  = []string{"account_id", "accounts_id", "accountId", "accountsId", "Accounts_id"}
	CampaignIDAliases = []string{"campaign_id", "campaigns_id", "Campaigns_id", "campaignId", "campaignsId"}
	LeadIDAliases     = []string{"lead_id", "leads_id", "Leads_id", "leadId", "leadsId"}

	FirstNameAliases      = []string{"first_name", "firstName", "First_name"}
	LastNameAliases       = []string{"last_name", "lastName", "Last_name"}
	FullNameAliases       = []string{"full_name", "fullName", "name"}
	PhoneAliases          = []string{"phone", "phone_number", "phoneNumber", "Phone"}
	EmailAliases          = []string{"email", "Email"}
	ManualTakeoverAliases = []string{"manual_takeover", "manualTakeover"}
	ReceivedCountAliases  = []string{"message_count_received", "messageCountReceived"}
	TagsAliases           = []string{"tags", "Tags"}

	DirectionAliases   = []string{"direction", "Direction"}
	ContentAliases     = []string{"content", "Content"}
	AttachmentAliases  = []string{"attachment", "attachment_url", "attachmentUrl", "Attachment"}
	StatusAliases      = []string{"status", "Status"}
	CreatedAtAliases   = []string{"created_at", "createdAt", "CreatedAt"}
	ThreadIDAliases    = []string{"conversation_thread_id", "conversationThreadId"}
	BumpNumberAliases  = []string{"bump_number", "bumpNumber"}
	IsBumpAliases      = []string{"is_bump", "isBump"}
	WhoAliases         = []string{"who", "Who"}
	MessageTypeAliases = []string{"type", "Type"}
)

// ID returns the record id.
func (r Record) ID() (int64, bool) { return r.Int(IDAliases...) }

// AccountID returns the account scoping key.
func (r Record) AccountID() (int64, bool) { return r.Int(AccountIDAliases...) }

// CampaignID returns the campaign scoping key.
func (r Record) CampaignID() (int64, bool) { return r.Int(CampaignIDAliases...) }

// LeadID returns the owning lead of an interaction.
func (r Record) LeadID() (int64, bool) { return r.Int(LeadIDAliases...) }

// Text returns the first non-null alias as a trimmed string, "" on a miss.
func (r Record) Text(aliases ...string) string {
	s, _ := r.String(aliases...)
	return strings.TrimSpace(s)
}

// CanonicalLayout is fixed width so lexicographic order equals chronological order.
const CanonicalLayout = "2006-01-02T15:04:05.000Z"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// epochSecondsLimit separates epoch seconds from epoch milliseconds. Seconds stay below
// it until the year 5138; milliseconds pass it from March 1973 on.
const epochSecondsLimit = 100_000_000_000

// CreatedAt returns the creation timestamp in CanonicalLayout, or "" when the record
// has none or it cannot be parsed. Epoch seconds and milliseconds are accepted too,
// as numbers or digit strings.
func (r Record) CreatedAt() string {
	v, ok := r.First(CreatedAtAliases...)
	if !ok {
		return ""
	}
	if v.Type == gjson.Number {
		return formatEpoch(v.Int())
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64); err == nil {
		return formatEpoch(n)
	}
	t, ok := ParseTime(v.String())
	if !ok {
		return ""
	}
	return FormatTime(t)
}

func formatEpoch(n int64) string {
	if n <= 0 {
		return ""
	}
	if n < epochSecondsLimit {
		return FormatTime(time.Unix(n, 0))
	}
	return FormatTime(time.UnixMilli(n))
}

// ParseTime parses any of the backend timestamp layouts.
func ParseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime renders t in CanonicalLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}

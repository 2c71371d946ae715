package record

import (
	"reflect"
	"testing"
)

func TestRecord_AliasPriority(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		aliases  []string
		expected int64
		found    bool
	}{
		{
			name:     "snake case campaign",
			input:    `{"campaign_id": 3, "campaigns_id": 4, "Campaigns_id": 5}`,
			aliases:  CampaignIDAliases,
			expected: 3,
			found:    true,
		},
		{
			name:     "plural fallback",
			input:    `{"campaigns_id": 4, "Campaigns_id": 5}`,
			aliases:  CampaignIDAliases,
			expected: 4,
			found:    true,
		},
		{
			name:     "pascal fallback",
			input:    `{"campaign_id": null, "Campaigns_id": 5}`,
			aliases:  CampaignIDAliases,
			expected: 5,
			found:    true,
		},
		{
			name:     "account plural",
			input:    `{"accounts_id": "12"}`,
			aliases:  AccountIDAliases,
			expected: 12,
			found:    true,
		},
		{
			name:    "total miss",
			input:   `{"other": 1}`,
			aliases: AccountIDAliases,
			found:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse([]byte(tc.input)).Int(tc.aliases...)
			if ok != tc.found {
				t.Fatalf("Expected found=%v, got %v", tc.found, ok)
			}
			if got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestRecord_Bool(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
		found    bool
	}{
		{`{"manual_takeover": true}`, true, true},
		{`{"manualTakeover": false}`, false, true},
		{`{"manual_takeover": 1}`, true, true},
		{`{"manual_takeover": "true"}`, true, true},
		{`{"manual_takeover": "maybe"}`, false, false},
		{`{}`, false, false},
	}

	for _, tc := range testCases {
		got, ok := Parse([]byte(tc.input)).Bool(ManualTakeoverAliases...)
		if got != tc.expected || ok != tc.found {
			t.Errorf("%s: expected (%v, %v), got (%v, %v)", tc.input, tc.expected, tc.found, got, ok)
		}
	}
}

func TestRecord_Strings(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{`{"tags": ["hot", " vip "]}`, []string{"hot", "vip"}},
		{`{"tags": "hot, vip"}`, []string{"hot", "vip"}},
		{`{"tags": "[\"hot\",\"vip\"]"}`, []string{"hot", "vip"}},
	}

	for _, tc := range testCases {
		got, _ := Parse([]byte(tc.input)).Strings(TagsAliases...)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%s: expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestRecord_StringRendersNumbers(t *testing.T) {
	got, ok := Parse([]byte(`{"conversation_thread_id": 5}`)).String(ThreadIDAliases...)
	if !ok || got != "5" {
		t.Errorf("Expected \"5\", got %q (ok=%v)", got, ok)
	}
}

func TestList_ShapeTolerance(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		count int
		fails bool
	}{
		{name: "bare array", input: `[{"id":1},{"id":2}]`, count: 2},
		{name: "list envelope", input: `{"list":[{"id":1}]}`, count: 1},
		{name: "empty envelope", input: `{"list":[]}`, count: 0},
		{name: "object without list", input: `{"items":[]}`, fails: true},
		{name: "invalid json", input: `{"list":[`, fails: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := List([]byte(tc.input))
			if tc.fails {
				if err == nil {
					t.Errorf("Expected error, got %d records", len(records))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(records) != tc.count {
				t.Errorf("Expected %d records, got %d", tc.count, len(records))
			}
		})
	}
}

func TestObject_Envelope(t *testing.T) {
	rec, err := Object([]byte(`{"data":{"id":9}}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id, _ := rec.ID(); id != 9 {
		t.Errorf("Expected id 9, got %d", id)
	}

	rec, err = Object([]byte(`{"id":3,"data":{"id":9}}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id, _ := rec.ID(); id != 3 {
		t.Errorf("Expected id 3, got %d", id)
	}
}

func TestRecord_CreatedAtCanonical(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{`{"created_at": "2024-05-01T10:00:00Z"}`, "2024-05-01T10:00:00.000Z"},
		{`{"createdAt": "2024-05-01T12:00:00+02:00"}`, "2024-05-01T10:00:00.000Z"},
		{`{"created_at": "2024-05-01 10:00:00"}`, "2024-05-01T10:00:00.000Z"},
		{`{"created_at": "2024-05-01T10:00:00.123456Z"}`, "2024-05-01T10:00:00.123Z"},
		{`{"created_at": 1714557600000}`, "2024-05-01T10:00:00.000Z"},
		{`{"created_at": 1714557600}`, "2024-05-01T10:00:00.000Z"},
		{`{"created_at": "1714557600000"}`, "2024-05-01T10:00:00.000Z"},
		{`{"created_at": " 1714557600 "}`, "2024-05-01T10:00:00.000Z"},
		{`{"created_at": 0}`, ""},
		{`{"created_at": "yesterday"}`, ""},
		{`{}`, ""},
	}

	for _, tc := range testCases {
		if got := Parse([]byte(tc.input)).CreatedAt(); got != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

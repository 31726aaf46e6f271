package schema_test

import (
	"testing"

	"db-mirror/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeMeaning(t *testing.T) {
	tests := []struct {
		col, comment, want string
	}{
		{"usr_tel_no", "", "user phone number"},
		{"c1", "고객 휴대폰 번호", "phone"},
		{"c2", "Primary e-mail address", "email"},
		{"c3", "client IP address", "ip"},
		{"description", "free text description", "description"},
		{"cust_nm", "", "cust name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, schema.AnalyzeMeaning(tt.col, tt.comment), tt.col)
	}
}

func TestSuggestAnonymization(t *testing.T) {
	tbl := &schema.Table{
		Name: "customer",
		Columns: []*schema.Column{
			{Name: "customer_id", IsPK: true},
			{Name: "first_name"},
			{Name: "email"},
			{Name: "hp_no"},
			{Name: "store_id", ForeignKeys: []*schema.ForeignKey{{RefTable: "store", RefColumn: "store_id"}}},
			{Name: "active"},
			{Name: "c9", Comment: "주민등록번호"},
		},
	}

	got := schema.SuggestAnonymization(tbl)

	assert.Equal(t, schema.AnonymizationMap{
		"first_name": "sha256",
		"email":      "fake_email",
		"hp_no":      "fake_phone",
		"c9":         "redact",
	}, got)
}

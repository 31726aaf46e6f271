package schema

import "strings"

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone", "mobile": "phone",
	"pwd": "password", "passwd": "password", "pw": "password",
	"mail": "email", "ip": "ip", "zip": "zipcode", "post": "zipcode",
	"usr": "user", "emp": "employee", "ssn": "ssn", "rrn": "ssn",
	"birth": "birthday", "dob": "birthday", "fname": "name", "lname": "name",
	"st": "street", "dist": "district", "acct": "account", "card": "card",
}

// commentHints are checked in order; the first keyword found in a column
// comment decides its meaning.
var commentHints = []struct {
	meaning  string
	keywords []string
}{
	{"ip", []string{"ip address", "ip 주소"}},
	{"phone", []string{"전화", "휴대폰", "연락처", "핸드폰", "mobile", "phone"}},
	{"email", []string{"이메일", "메일", "email", "mail"}},
	{"address", []string{"주소", "거주지", "address"}},
	{"zipcode", []string{"우편", "zip", "postal"}},
	{"password", []string{"비밀번호", "패스워드", "암호", "password"}},
	{"ssn", []string{"주민등록", "social security", "ssn"}},
	{"name", []string{"이름", "성명", "name"}},
	{"birthday", []string{"생년월일", "birth"}},
}

// AnalyzeMeaning guesses what a column holds from its comment, falling back to
// expanding the abbreviations in its name ("usr_tel_no" -> "user phone number").
func AnalyzeMeaning(colName, comment string) string {
	c := strings.ToLower(comment)
	for _, h := range commentHints {
		for _, kw := range h.keywords {
			if strings.Contains(c, kw) {
				return h.meaning
			}
		}
	}

	parts := strings.Split(strings.ToLower(colName), "_")
	for i, part := range parts {
		if full, ok := abbreviations[part]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}

// suggestions maps a meaning word to the transform that hides it. Order
// matters: "email" must win over "name" for "user_name_email".
var suggestions = []struct {
	word      string
	transform string
}{
	{"email", "fake_email"},
	{"phone", "fake_phone"},
	{"password", "sha256"},
	{"ssn", "redact"},
	{"card", "redact"},
	{"address", "fake_address"},
	{"street", "fake_address"},
	{"zipcode", "fake_zipcode"},
	{"birthday", "fake_date"},
	{"ip", "fake_ipv4"},
	{"name", "sha256"},
}

// SuggestAnonymization proposes an anonymization map for t based on column
// meanings. Key columns are never suggested.
func SuggestAnonymization(t *Table) AnonymizationMap {
	m := AnonymizationMap{}
	for _, c := range t.Columns {
		if c.IsPK || c.ForeignKey() != nil {
			continue
		}
		words := strings.Fields(AnalyzeMeaning(c.Name, c.Comment))
		for _, s := range suggestions {
			if containsWord(words, s.word) {
				m[c.Name] = s.transform
				break
			}
		}
	}
	return m
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

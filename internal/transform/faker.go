package transform

import "strconv"

// generators ignore the original value and produce a fresh fake one.
func registerFakers(r *Registry) {
	f := r.faker
	gen := map[string]func() any{
		"fake_name":       func() any { return f.Name() },
		"fake_first_name": func() any { return f.FirstName() },
		"fake_last_name":  func() any { return f.LastName() },
		"fake_email":      func() any { return f.Email() },
		"fake_phone":      func() any { return f.Phone() },
		"fake_address":    func() any { return f.Address().Address },
		"fake_city":       func() any { return f.City() },
		"fake_zipcode":    func() any { return f.Zip() },
		"fake_company":    func() any { return f.Company() },
		"fake_username":   func() any { return f.Username() },
		"fake_sentence":   func() any { return f.Sentence(8) },
		"fake_ipv4":       func() any { return f.IPv4Address() },
		"fake_url":        func() any { return f.URL() },
		"fake_date":       func() any { return f.Date().Format("2006-01-02") },
	}
	for name, g := range gen {
		g := g
		r.Register(name, func(any) (any, error) {
			return g(), nil
		})
	}
}

// PhoneNumber returns a transform producing a random ten-digit number as
// text. The first digit is never zero.
func PhoneNumber(r *Registry) Func {
	return func(any) (any, error) {
		return strconv.Itoa(r.faker.Number(1111111111, 9999999999)), nil
	}
}

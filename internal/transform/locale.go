package transform

import "fmt"

var (
	lastNames  = []string{"김", "이", "박", "최", "정", "강", "조", "윤", "장", "임", "한", "오", "서", "신", "권"}
	firstNames = []string{"민준", "서준", "도윤", "예준", "시우", "하준", "지호", "서연", "서윤", "지우", "하은", "민서"}
	cities     = []string{"서울", "부산", "대구", "인천", "광주", "대전", "울산", "수원", "청주", "전주"}
	districts  = []string{"강남구", "서초구", "송파구", "종로구", "마포구", "영등포구", "관악구", "노원구"}
	streets    = []string{"테헤란로", "강남대로", "올림픽로", "세종대로", "을지로", "퇴계로", "종로", "양화로"}
)

// registerLocale adds Korean-format personal data generators.
func registerLocale(r *Registry) {
	f := r.faker
	r.Register("kr_name", func(any) (any, error) {
		return f.RandomString(lastNames) + f.RandomString(firstNames), nil
	})
	r.Register("kr_phone", func(any) (any, error) {
		return fmt.Sprintf("010-%04d-%04d", f.Number(0, 9999), f.Number(0, 9999)), nil
	})
	r.Register("kr_address", func(any) (any, error) {
		return fmt.Sprintf("%s %s %s %d번길",
			f.RandomString(cities), f.RandomString(districts), f.RandomString(streets), f.Number(1, 100)), nil
	})
}

package transform_test

import (
	"regexp"
	"testing"

	"db-mirror/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const augustusSHA256 = "ba1a05ec6ce10464e677fae4bf4b9d8e0fe0d5a2af767cddc04f6903f8fa2bc6"

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := transform.NewRegistry()

	_, err := r.Resolve("does_not_exist")

	var unknown *transform.UnknownTransformError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "does_not_exist", unknown.Name)
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := transform.NewRegistry()
	r.Register("sha256", func(any) (any, error) { return "replaced", nil })

	fn, err := r.Resolve("sha256")
	require.NoError(t, err)

	got, err := fn("Augustus")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)
}

func TestRegistry_CustomTransform(t *testing.T) {
	r := transform.NewRegistry(transform.WithSeed(7))
	r.Register("phone_number", transform.PhoneNumber(r))

	fn, err := r.Resolve("phone_number")
	require.NoError(t, err)

	got, err := fn("2222222222")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{10}$`), got)
}

func TestPhoneNumber_NoLeadingZero(t *testing.T) {
	fn := transform.PhoneNumber(transform.NewRegistry(transform.WithSeed(7)))

	for i := 0; i < 500; i++ {
		got, err := fn(nil)
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9]\d{9}$`, got)
	}
}

func TestRegistry_RegistriesAreIndependent(t *testing.T) {
	a := transform.NewRegistry()
	b := transform.NewRegistry()
	a.Register("only_in_a", func(v any) (any, error) { return v, nil })

	_, err := b.Resolve("only_in_a")
	assert.Error(t, err)
}

func TestRegistry_Names(t *testing.T) {
	names := transform.NewRegistry().Names()
	assert.Contains(t, names, "boolean")
	assert.Contains(t, names, "sha256")
	assert.Contains(t, names, "fake_email")
	assert.IsNonDecreasing(t, names)
}

func TestSHA256(t *testing.T) {
	fn, err := transform.NewRegistry().Resolve("sha256")
	require.NoError(t, err)

	first, err := fn("Augustus")
	require.NoError(t, err)
	second, err := fn("Augustus")
	require.NoError(t, err)

	assert.Equal(t, augustusSHA256, first)
	assert.Equal(t, first, second)

	got, err := fn("김민준")
	require.NoError(t, err)
	assert.Equal(t, "0b46d03b0b3355e67179efa6f64f4e6461af77dc577142b8e0749b67188a3a9f", got)

	got, err = fn(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSHA256_TypeMismatch(t *testing.T) {
	fn, err := transform.NewRegistry().Resolve("sha256")
	require.NoError(t, err)

	_, err = fn(42)

	var mismatch *transform.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "sha256", mismatch.Transform)
	assert.Equal(t, 42, mismatch.Value)
}

func TestBoolean(t *testing.T) {
	fn, err := transform.NewRegistry().Resolve("boolean")
	require.NoError(t, err)

	for _, in := range []any{"x", 1, nil, true} {
		got, err := fn(in)
		require.NoError(t, err)
		assert.IsType(t, true, got)
	}
}

func TestUtilityTransforms(t *testing.T) {
	r := transform.NewRegistry()
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"md5", "Augustus", "d175b36beaf2ca66b7e25b9a05d3dca9"},
		{"redact", "서울시", "***"},
		{"null", "anything", nil},
		{"keep", int64(9), int64(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := r.Resolve(tt.name)
			require.NoError(t, err)
			got, err := fn(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFakersProduceText(t *testing.T) {
	r := transform.NewRegistry(transform.WithSeed(1))
	for _, name := range []string{"fake_name", "fake_email", "fake_phone", "fake_address", "fake_ipv4", "kr_name", "kr_phone", "kr_address"} {
		fn, err := r.Resolve(name)
		require.NoError(t, err, name)

		got, err := fn("original")
		require.NoError(t, err, name)
		s, ok := got.(string)
		require.True(t, ok, "%s returned %T", name, got)
		assert.NotEmpty(t, s, name)
		assert.NotEqual(t, "original", s, name)
	}
}

func TestKoreanPhoneFormat(t *testing.T) {
	fn, err := transform.NewRegistry().Resolve("kr_phone")
	require.NoError(t, err)

	got, err := fn(nil)
	require.NoError(t, err)
	assert.Regexp(t, `^010-\d{4}-\d{4}$`, got)
}

package locale

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		lang     string
		wantCode string
		wantBack string
	}{
		{lang: "en", wantCode: "en", wantBack: "Back"},
		{lang: "fr", wantCode: "fr", wantBack: "Retour"},
		{lang: "xx", wantCode: "en", wantBack: "Back"},
		{lang: "", wantCode: "en", wantBack: "Back"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			l, code, err := Load(tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantBack, l.Back)
		})
	}
}

func TestEveryLocaleIsComplete(t *testing.T) {
	for _, code := range Available() {
		l, _, err := Load(code)
		require.NoError(t, err)
		v := reflect.ValueOf(l)
		for i := 0; i < v.NumField(); i++ {
			assert.NotEmptyf(t, v.Field(i).String(), "%s: %s is empty", code, v.Type().Field(i).Name)
		}
	}
	assert.ElementsMatch(t, []string{"en", "fr"}, Available())
}

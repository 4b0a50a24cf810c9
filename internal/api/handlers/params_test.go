package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestPathParam_Decodes(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/commander/{name}", func(w http.ResponseWriter, r *http.Request) {
		got = pathParam(r, "name")
	})

	req := httptest.NewRequest(http.MethodGet, "/commander/Atraxa%2C%20Praetors%27%20Voice", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got != "Atraxa, Praetors' Voice" {
		t.Errorf("pathParam = %q, want %q", got, "Atraxa, Praetors' Voice")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"tokens", []string{"tokens"}},
		{"tokens,counters", []string{"tokens", "counters"}},
		{" tokens , counters ,", []string{"tokens", "counters"}},
		{",,", nil},
	}

	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

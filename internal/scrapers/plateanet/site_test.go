package plateanet

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"plateanet-crawler/internal/components/telemetry"
)

const testToken = "test-token"

// newTestSite serves `routes` (keyed by go 1.22 mux patterns) and returns a
// client pointed at it.
func newTestSite(t testing.TB, routes map[string]http.HandlerFunc) (*Client, *telemetry.Recorder) {
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	rec := telemetry.NewRecorder()
	client, err := NewClient(ClientOptions{
		BaseUrl: server.URL,
		Token:   testToken,
	}, rec)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Close)

	return client, rec
}

func serveString(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", contentType)
		w.Write([]byte(body))
	}
}

func serveStatus(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

// serveForm checks the token and hands the posted form to `respond`.
func serveForm(t testing.TB, respond func(form map[string]string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			t.Error(err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("token") != testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(respond(form)))
	}
}

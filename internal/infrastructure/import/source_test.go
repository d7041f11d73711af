package csvimport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKind(t *testing.T) {
	assert.Equal(t, "file", Source{FileBytes: []byte("a")}.Kind())
	assert.Equal(t, "text", Source{Text: "a"}.Kind())
	assert.Equal(t, "url", Source{URL: "http://x"}.Kind())
	assert.Equal(t, "", Source{}.Kind())

	t.Run("file wins over text and url", func(t *testing.T) {
		s := Source{FileBytes: []byte("a"), Text: "b", URL: "http://x"}
		assert.Equal(t, "file", s.Kind())
	})
}

func TestResolverResolve(t *testing.T) {
	resolver := NewResolver(5 * time.Second)
	ctx := context.Background()

	t.Run("file bytes passed through", func(t *testing.T) {
		data, err := resolver.Resolve(ctx, Source{FileBytes: []byte("CLIENTE\nAna\n")})
		require.NoError(t, err)
		assert.Equal(t, "CLIENTE\nAna\n", string(data))
	})

	t.Run("inline text passed through", func(t *testing.T) {
		data, err := resolver.Resolve(ctx, Source{Text: "CLIENTE\nAna\n"})
		require.NoError(t, err)
		assert.Equal(t, "CLIENTE\nAna\n", string(data))
	})

	t.Run("empty source is fatal", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, Source{})
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("url fetched over http", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("CLIENTE\nAna\n"))
		}))
		defer srv.Close()

		data, err := resolver.Resolve(ctx, Source{URL: srv.URL})
		require.NoError(t, err)
		assert.Equal(t, "CLIENTE\nAna\n", string(data))
	})

	t.Run("non 2xx url response fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := resolver.Resolve(ctx, Source{URL: srv.URL})
		assert.ErrorIs(t, err, ErrSourceUnreadable)
	})

	t.Run("empty url response fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		_, err := resolver.Resolve(ctx, Source{URL: srv.URL})
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("unreachable url fails", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, Source{URL: "http://127.0.0.1:1/none.csv"})
		assert.ErrorIs(t, err, ErrSourceUnreadable)
	})
}

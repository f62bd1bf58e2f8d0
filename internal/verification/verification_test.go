package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

func TestSupplied(t *testing.T) {
	tok, err := Supplied(" 03AFcWeA ").Token(context.Background(), ActionClaimSubmit)
	require.NoError(t, err)
	assert.Equal(t, "03AFcWeA", tok)

	_, err = Supplied("").Token(context.Background(), ActionClaimSubmit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	assert.Equal(t, MsgFailed, err.Error())
}

func TestHTTPIssuer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if r.URL.Path != "/token" || json.NewDecoder(r.Body).Decode(&req) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch req.Action {
		case ActionClaimSubmit:
			_ = json.NewEncoder(w).Encode(tokenResponse{Token: "tok-" + req.Action})
		case "empty":
			_ = json.NewEncoder(w).Encode(tokenResponse{})
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	issuer := NewHTTPIssuer(server.URL+"/", "s3cret", time.Second)

	t.Run("issues a token bound to the action", func(t *testing.T) {
		tok, err := issuer.Token(context.Background(), ActionClaimSubmit)
		require.NoError(t, err)
		assert.Equal(t, "tok-claim_submit", tok)
	})

	t.Run("empty token fails", func(t *testing.T) {
		_, err := issuer.Token(context.Background(), "empty")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	})

	t.Run("refused action fails", func(t *testing.T) {
		_, err := issuer.Token(context.Background(), "login")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		_, err := NewHTTPIssuer(server.URL, "nope", time.Second).Token(context.Background(), ActionClaimSubmit)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	})
}

func TestHTTPIssuerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPIssuer(url, "", time.Second).Token(context.Background(), ActionClaimSubmit)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeVerificationFailed))
}

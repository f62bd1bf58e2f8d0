package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
)

// IdempotencyHeader identifies one submission attempt.
const IdempotencyHeader = "Idempotency-Key"

// CreateClaim posts a public claim as multipart/form-data.
func (c *Client) CreateClaim(ctx context.Context, tenant string, req ClaimRequest) (Receipt, error) {
	const op = "create_claim"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range req.Parts {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return Receipt{}, newError(CategoryInternal, op, 0, "failed to encode field", err)
		}
	}
	for _, f := range req.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachment"; filename="%s"`, escapeQuotes(f.Name)))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return Receipt{}, newError(CategoryInternal, op, 0, "failed to encode attachment", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return Receipt{}, newError(CategoryInternal, op, 0, "failed to encode attachment", err)
		}
	}
	if err := w.Close(); err != nil {
		return Receipt{}, newError(CategoryInternal, op, 0, "failed to encode payload", err)
	}

	cl := call{
		op:          op,
		method:      http.MethodPost,
		path:        fmt.Sprintf("/api/public/%s/claims", url.PathEscape(tenant)),
		tenant:      tenant,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}
	if req.IdempotencyKey != "" {
		cl.header = http.Header{IdempotencyHeader: []string{req.IdempotencyKey}}
	}

	var receipt Receipt
	if err := c.do(ctx, cl, &receipt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// TrackClaim returns the public status of the claim with the given code.
func (c *Client) TrackClaim(ctx context.Context, tenant, code string) (Tracking, error) {
	path := fmt.Sprintf("/api/public/%s/claims/%s", url.PathEscape(tenant), url.PathEscape(code))
	cl, _ := jsonCall("track_claim", http.MethodGet, path, tenant, nil)

	var t Tracking
	if err := c.do(ctx, cl, &t); err != nil {
		return Tracking{}, err
	}
	return t, nil
}

// SearchLocations returns the backend's unranked location matches for term.
func (c *Client) SearchLocations(ctx context.Context, term string) ([]ranking.Location, error) {
	q := url.Values{"search": []string{term}}
	cl, _ := jsonCall("search_locations", http.MethodGet, "/api/locations?"+q.Encode(), "", nil)

	var locs []ranking.Location
	if err := c.do(ctx, cl, &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

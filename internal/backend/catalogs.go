package backend

import (
	"context"
	"net/http"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
)

const catalogsKey = "catalogs"

// Catalogs returns the document types, consumption types, claim types and
// currencies. The four lists are fetched concurrently and cached together;
// a partial failure caches nothing.
func (c *Client) Catalogs(ctx context.Context) (catalog.Catalogs, error) {
	if v, ok := c.catalogs.Get(catalogsKey); ok {
		return v.(catalog.Catalogs), nil
	}

	v, err, _ := c.loads.Do(catalogsKey, func() (any, error) {
		cats, err := c.fetchCatalogs(ctx)
		if err != nil {
			return catalog.Catalogs{}, err
		}
		c.catalogs.Set(catalogsKey, cats, cache.DefaultExpiration)
		return cats, nil
	})
	if err != nil {
		return catalog.Catalogs{}, err
	}
	return v.(catalog.Catalogs), nil
}

// InvalidateCatalogs drops the cached catalogs.
func (c *Client) InvalidateCatalogs() {
	c.catalogs.Delete(catalogsKey)
}

func (c *Client) fetchCatalogs(ctx context.Context) (catalog.Catalogs, error) {
	var cats catalog.Catalogs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getList(gctx, "document_types", &cats.DocumentTypes)
	})
	g.Go(func() error {
		return c.getList(gctx, "consumption_types", &cats.ConsumptionTypes)
	})
	g.Go(func() error {
		return c.getList(gctx, "claim_types", &cats.ClaimTypes)
	})
	g.Go(func() error {
		return c.getList(gctx, "currencies", &cats.Currencies)
	})
	if err := g.Wait(); err != nil {
		return catalog.Catalogs{}, err
	}
	return cats, nil
}

func (c *Client) getList(ctx context.Context, name string, out any) error {
	cl, _ := jsonCall("catalog_"+name, http.MethodGet, "/api/"+name, "", nil)
	return c.do(ctx, cl, out)
}

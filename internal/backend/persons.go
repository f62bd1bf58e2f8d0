package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// FindPerson looks a customer or tutor up by document number within a tenant.
// A missing record is an *Error with CategoryNotFound.
func (c *Client) FindPerson(ctx context.Context, tenant string, kind PersonKind, number string) (Person, error) {
	path := fmt.Sprintf("/api/tenants/%s/%s/document/%s",
		url.PathEscape(tenant), kind.collection(), url.PathEscape(number))
	cl, _ := jsonCall("find_"+string(kind), http.MethodGet, path, tenant, nil)

	var p Person
	if err := c.do(ctx, cl, &p); err != nil {
		return Person{}, err
	}
	return p, nil
}

// CreatePerson creates a customer or tutor record and returns it with its id.
func (c *Client) CreatePerson(ctx context.Context, tenant string, kind PersonKind, p Person) (Person, error) {
	op := "create_" + string(kind)
	path := fmt.Sprintf("/api/tenants/%s/%s", url.PathEscape(tenant), kind.collection())
	cl, err := jsonCall(op, http.MethodPost, path, tenant, p)
	if err != nil {
		return Person{}, err
	}

	var created Person
	if err := c.do(ctx, cl, &created); err != nil {
		return Person{}, err
	}
	if created.ID == 0 {
		return Person{}, newError(CategoryBadData, op, http.StatusOK, "created record has no id", nil)
	}
	return created, nil
}

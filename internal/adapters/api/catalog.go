package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

// CatalogClient reads service listings for display enrichment.
type CatalogClient struct {
	client *Client
}

var _ ports.ServiceCatalog = (*CatalogClient)(nil)

func NewCatalogClient(client *Client) *CatalogClient {
	return &CatalogClient{client: client}
}

func (c *CatalogClient) GetService(ctx context.Context, serviceID int64) (domain.ServiceSummary, error) {
	resp, err := c.client.call(ctx, http.MethodGet, "products/"+strconv.FormatInt(serviceID, 10), nil)
	if err != nil {
		return domain.ServiceSummary{}, fmt.Errorf("get service %d: %w", serviceID, err)
	}
	if !resp.ok() {
		return domain.ServiceSummary{}, fmt.Errorf("get service %d: %w", serviceID, statusError(opCatalog, resp))
	}
	if !gjson.ValidBytes(resp.body) {
		return domain.ServiceSummary{}, fmt.Errorf("get service %d: %w", serviceID, errors.New("invalid json body"))
	}

	product := gjson.ParseBytes(resp.body)
	summary := domain.ServiceSummary{
		ID:           product.Get("idService").Int(),
		Title:        product.Get("name").String(),
		ProviderName: product.Get("providerName").String(),
		Game:         product.Get("game").String(),
	}
	if summary.ID == 0 {
		summary.ID = serviceID
	}
	if price := product.Get("price"); price.Exists() && price.Type == gjson.Number {
		summary.Price = strconv.FormatFloat(price.Float(), 'f', 2, 64) + " €"
	}
	return summary, nil
}

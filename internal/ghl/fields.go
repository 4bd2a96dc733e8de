package ghl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// CustomField is a field definition as the CRM reports it.
type CustomField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	Model    string `json:"model"`
}

type listFieldsResponse struct {
	CustomFields []CustomField `json:"customFields"`
}

type createFieldRequest struct {
	Name     string   `json:"name"`
	DataType string   `json:"dataType"`
	Model    string   `json:"model"`
	Options  []string `json:"options,omitempty"`
}

type createFieldResponse struct {
	CustomField CustomField `json:"customField"`
}

// ListCustomFields fetches every contact custom field for the location.
func (c *Client) ListCustomFields(ctx context.Context) ([]CustomField, error) {
	var out listFieldsResponse
	path := fmt.Sprintf("/locations/%s/customFields?model=contact", c.cfg.LocationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.CustomFields, nil
}

// CreateCustomField creates one contact custom field from a catalog entry.
func (c *Client) CreateCustomField(ctx context.Context, def FieldDefinition) (*CustomField, error) {
	req := createFieldRequest{
		Name:     def.Name,
		DataType: def.DataType,
		Model:    "contact",
		Options:  def.Options,
	}

	var out createFieldResponse
	path := fmt.Sprintf("/locations/%s/customFields", c.cfg.LocationID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out.CustomField, nil
}

// Registry reconciles the compiled-in field catalog against the CRM.
type Registry struct {
	client  *Client
	cache   *FieldCache
	catalog []FieldDefinition
	loggerf func(format string, args ...interface{})
}

func NewRegistry(client *Client, cache *FieldCache, catalog []FieldDefinition, loggerf func(format string, args ...interface{})) *Registry {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Registry{
		client:  client,
		cache:   cache,
		catalog: catalog,
		loggerf: loggerf,
	}
}

// EnsureFields returns a catalog key → remote field ID map, creating any
// catalog fields the CRM doesn't have yet. A failed create is logged and the
// key omitted; downstream mapping then drops that value for this submission.
func (r *Registry) EnsureFields(ctx context.Context) (map[string]string, error) {
	keys := make([]string, 0, len(r.catalog))
	for _, def := range r.catalog {
		keys = append(keys, def.Key)
	}
	if ids, ok := r.cache.GetAll(keys); ok {
		return ids, nil
	}

	remote, err := r.client.ListCustomFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom fields: %w", err)
	}

	byName := make(map[string]CustomField, len(remote))
	for _, f := range remote {
		byName[canonicalName(f.Name)] = f
	}

	ids := make(map[string]string, len(r.catalog))
	for _, def := range r.catalog {
		if f, ok := byName[canonicalName(def.Name)]; ok {
			ids[def.Key] = f.ID
			continue
		}

		created, err := r.client.CreateCustomField(ctx, def)
		if err != nil {
			r.loggerf("level=error msg=create custom field failed field=%s err=%v", def.Key, err)
			continue
		}
		r.loggerf("level=info msg=created custom field field=%s id=%s", def.Key, created.ID)
		ids[def.Key] = created.ID
	}

	r.cache.PutAll(ids)
	return ids, nil
}

// canonicalName normalizes a field name for lookup: lowercase with runs of
// whitespace collapsed. Cosmetic edits to a field's name in the CRM UI must
// not make the registry create a duplicate.
func canonicalName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

package stub

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"admin-console/internal/resource"
)

func (s *Server) login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid JSON body")
	}
	if body.Email != s.cfg.AdminEmail || !CheckPassword(body.Password, s.adminHash) {
		return respondError(c, 401, "Invalid credentials")
	}
	token, err := GenerateAccessToken(body.Email, s.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return respond(c, 200, fiber.Map{"data": fiber.Map{"accessToken": token}})
}

// list handles GET /api/:resource?page=&pageSize=
func (s *Server) list(c *fiber.Ctx) error {
	desc, err := s.resolveResource(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 10
	}

	docs, total, err := s.store.List(c.Context(), desc.Key, page, pageSize)
	if err != nil {
		return fmt.Errorf("list %s: %w", desc.Key, err)
	}
	if docs == nil {
		docs = []map[string]any{}
	}

	return respond(c, 200, fiber.Map{
		"data": docs,
		"meta": fiber.Map{"page": page, "pageSize": pageSize, "total": total},
	})
}

// get handles GET /api/:resource/:id[/:id2]
func (s *Server) get(c *fiber.Ctx) error {
	desc, err := s.resolveResource(c)
	if err != nil {
		return err
	}
	pk := s.paramKey(c, desc)

	doc, err := s.store.Get(c.Context(), desc.Key, pk)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondError(c, 404, fmt.Sprintf("%s with id %s not found", desc.Key, pk))
		}
		return fmt.Errorf("get %s/%s: %w", desc.Key, pk, err)
	}

	if err := s.attachIncludes(c, desc, doc); err != nil {
		return fmt.Errorf("attach includes: %w", err)
	}
	return respond(c, 200, fiber.Map{"data": doc})
}

// create handles POST /api/:resource
func (s *Server) create(c *fiber.Ctx) error {
	desc, err := s.resolveResource(c)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid JSON body")
	}

	if msg := validateEnums(desc, body); msg != "" {
		return respondError(c, 422, msg)
	}

	// generated single-field identity; join tables carry their keys in the body
	if len(desc.PrimaryKeys) == 1 {
		pkField := desc.PrimaryKeys[0]
		if str(body[pkField]) == "" {
			body[pkField] = uuid.New().String()
		}
	}
	if desc.HasColumn("createdAt") && str(body["createdAt"]) == "" {
		body["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}

	pkVals := make([]string, 0, len(desc.PrimaryKeys))
	for _, pkField := range desc.PrimaryKeys {
		v := str(body[pkField])
		if v == "" {
			return respondError(c, 422, fmt.Sprintf("Missing required field: %s", pkField))
		}
		pkVals = append(pkVals, v)
	}

	if err := s.store.Insert(c.Context(), desc.Key, CompositeKey(pkVals), body); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return respondError(c, 409, "A record with this identity already exists")
		}
		return fmt.Errorf("create %s: %w", desc.Key, err)
	}
	return respond(c, 201, fiber.Map{"data": body})
}

// update handles PUT /api/:resource/:id[/:id2]
func (s *Server) update(c *fiber.Ctx) error {
	desc, err := s.resolveResource(c)
	if err != nil {
		return err
	}
	pk := s.paramKey(c, desc)

	current, err := s.store.Get(c.Context(), desc.Key, pk)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondError(c, 404, fmt.Sprintf("%s with id %s not found", desc.Key, pk))
		}
		return fmt.Errorf("fetch %s/%s: %w", desc.Key, pk, err)
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, 400, "Invalid JSON body")
	}
	if msg := validateEnums(desc, body); msg != "" {
		return respondError(c, 422, msg)
	}

	for field, value := range body {
		if desc.IsPrimaryKey(field) {
			continue
		}
		current[field] = value
	}

	if err := s.store.Update(c.Context(), desc.Key, pk, current); err != nil {
		return fmt.Errorf("update %s/%s: %w", desc.Key, pk, err)
	}
	return respond(c, 200, fiber.Map{"data": current})
}

// remove handles DELETE /api/:resource/:id[/:id2]
func (s *Server) remove(c *fiber.Ctx) error {
	desc, err := s.resolveResource(c)
	if err != nil {
		return err
	}
	pk := s.paramKey(c, desc)

	if err := s.store.Delete(c.Context(), desc.Key, pk); err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondError(c, 404, fmt.Sprintf("%s with id %s not found", desc.Key, pk))
		}
		return fmt.Errorf("delete %s/%s: %w", desc.Key, pk, err)
	}
	return respond(c, 200, fiber.Map{"message": "deleted"})
}

func (s *Server) resolveResource(c *fiber.Ctx) (*resource.Descriptor, error) {
	name := c.Params("resource")
	desc := s.registry.Lookup(name)
	if desc == nil {
		return nil, respondError(c, 404, fmt.Sprintf("Unknown resource: %s", name))
	}
	return desc, nil
}

func (s *Server) paramKey(c *fiber.Ctx, desc *resource.Descriptor) string {
	vals := []string{c.Params("id")}
	if len(desc.PrimaryKeys) > 1 {
		vals = append(vals, c.Params("id2"))
	}
	return CompositeKey(vals)
}

// attachIncludes embeds the related skill/category entities on a job, the
// shape the engine's editor seeds its join state from.
func (s *Server) attachIncludes(c *fiber.Ctx, desc *resource.Descriptor, doc map[string]any) error {
	if desc.Key != "jobs" {
		return nil
	}
	jobID := str(doc["id"])

	joins := []struct {
		joinKey, counterpartField, targetKey, attachAs string
	}{
		{"jobskills", "skillId", "skills", "skills"},
		{"jobcategories", "categoryId", "categories", "categories"},
	}
	for _, j := range joins {
		rows, _, err := s.store.List(c.Context(), j.joinKey, 1, 500)
		if err != nil {
			return err
		}
		related := []any{}
		for _, row := range rows {
			if str(row["jobId"]) != jobID {
				continue
			}
			entity, err := s.store.Get(c.Context(), j.targetKey, str(row[j.counterpartField]))
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			related = append(related, entity)
		}
		doc[j.attachAs] = related
	}
	return nil
}

func validateEnums(desc *resource.Descriptor, body map[string]any) string {
	for field, legal := range desc.FieldEnums {
		v, ok := body[field]
		if !ok || v == nil {
			continue
		}
		value := str(v)
		if value == "" {
			continue
		}
		valid := false
		for _, l := range legal {
			if value == l {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Sprintf("Invalid value for %s: %s", field, value)
		}
	}
	return ""
}

func str(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

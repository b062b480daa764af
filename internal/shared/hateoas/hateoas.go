package hateoas

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"book-catalog-api/internal/shared/response"
)

// HeaderInclude switches link augmentation on when set to "Y".
const HeaderInclude = "includeHATEOAS"

// Link is one navigable action on a resource.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Resource is embedded by DTOs that can carry links.
type Resource struct {
	Links []Link `json:"links,omitempty"`
}

func (r *Resource) AddLink(l Link) {
	r.Links = append(r.Links, l)
}

// Linkable is a resource that can receive links.
type Linkable interface {
	AddLink(l Link)
	LinkID() int64
}

// LinkBuilder returns the links of one resource for the current caller.
type LinkBuilder func(c *gin.Context, res Linkable, isAdmin bool) []Link

// Requested reports whether the request asked for links.
func Requested(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.GetHeader(HeaderInclude)), "Y")
}

// Middleware adds links to a successful result once the handler returned.
// isAdmin decides which links the caller is allowed to see.
func Middleware(build LinkBuilder, isAdmin func(*gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !Requested(c) {
			return
		}
		r, ok := response.From(c)
		if !ok || !r.IsSuccess() || r.Data == nil {
			return
		}

		admin := isAdmin(c)
		r.Data = Decorate(r.Data, func(res Linkable) {
			for _, l := range build(c, res, admin) {
				res.AddLink(l)
			}
		})
		response.Set(c, r)
	}
}

// Decorate calls fn for every Linkable in data: a single resource, a pointer
// to one, or a slice of them. Values are copied so fn always works on an
// addressable resource; the possibly new data is returned.
func Decorate(data interface{}, fn func(Linkable)) interface{} {
	v := reflect.ValueOf(data)

	switch v.Kind() {
	case reflect.Ptr:
		if l, ok := data.(Linkable); ok && !v.IsNil() {
			fn(l)
		}
		return data

	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			if elem.Kind() == reflect.Ptr {
				if l, ok := elem.Interface().(Linkable); ok && !elem.IsNil() {
					fn(l)
				}
				continue
			}
			if l, ok := elem.Addr().Interface().(Linkable); ok {
				fn(l)
			}
		}
		return data

	case reflect.Struct:
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		if l, ok := ptr.Interface().(Linkable); ok {
			fn(l)
			return ptr.Interface()
		}
		return data
	}

	return data
}

package nest

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the json tag so sentinel metadata carries field names.
	sentinel.Tag("json")
}

// fieldPlan describes how a struct field appears as an object member.
type fieldPlan struct {
	name      string // member name (json tag name or Go field name)
	index     []int  // reflect.Value.FieldByIndex access path
	omitEmpty bool   // json ",omitempty"
}

var (
	fieldCache   = make(map[reflect.Type][]fieldPlan)
	fieldCacheMu sync.RWMutex
)

// Register pre-scans struct type T so that its field metadata is cached
// before first use. Registration is optional; unregistered types are scanned
// on demand.
func Register[T any]() {
	sentinel.Scan[T]()
	fieldsFor(reflect.TypeFor[T]())
}

// fieldsFor returns the member plans for struct type rt, in field order.
func fieldsFor(rt reflect.Type) []fieldPlan {
	fieldCacheMu.RLock()
	if cached, ok := fieldCache[rt]; ok {
		fieldCacheMu.RUnlock()
		return cached
	}
	fieldCacheMu.RUnlock()

	plans := buildFieldPlans(rt, nil, map[reflect.Type]bool{})

	fieldCacheMu.Lock()
	defer fieldCacheMu.Unlock()
	if cached, ok := fieldCache[rt]; ok {
		return cached
	}
	fieldCache[rt] = plans
	return plans
}

// buildFieldPlans walks the struct metadata in declaration order, promoting
// untagged embedded structs into the parent. When names collide the
// shallowest field wins.
func buildFieldPlans(rt reflect.Type, parentIndex []int, visiting map[reflect.Type]bool) []fieldPlan {
	if visiting[rt] {
		return nil
	}
	visiting[rt] = true
	defer delete(visiting, rt)

	meta := structMetadata(rt)
	var all []fieldPlan
	for _, field := range meta.Fields {
		tag := field.Tags["json"]
		if tag == "-" {
			continue
		}
		name, omitEmpty := parseJSONTag(tag)
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)

		sf := rt.FieldByIndex(field.Index)
		if name == "" && embedsStruct(sf) {
			et := sf.Type
			if et.Kind() == reflect.Ptr {
				et = et.Elem()
			}
			all = append(all, buildFieldPlans(et, fullIndex, visiting)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}
		all = append(all, fieldPlan{
			name:      name,
			index:     fullIndex,
			omitEmpty: omitEmpty,
		})
	}

	depth := make(map[string]int, len(all))
	for _, f := range all {
		if d, ok := depth[f.name]; !ok || len(f.index) < d {
			depth[f.name] = len(f.index)
		}
	}
	out := make([]fieldPlan, 0, len(all))
	taken := make(map[string]bool, len(all))
	for _, f := range all {
		if taken[f.name] || len(f.index) != depth[f.name] {
			continue
		}
		taken[f.name] = true
		out = append(out, f)
	}
	return out
}

// structMetadata returns sentinel metadata for rt, scanning it by
// reflection when sentinel has not seen the type.
func structMetadata(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok && len(spec.Fields) > 0 {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() && !embedsStruct(sf) {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if val, ok := sf.Tag.Lookup("json"); ok {
			fm.Tags["json"] = val
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// embedsStruct reports whether sf embeds a struct or a pointer to one.
// Such fields are promoted even when their type is unexported.
func embedsStruct(sf reflect.StructField) bool {
	if !sf.Anonymous {
		return false
	}
	t := sf.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// parseJSONTag splits a json struct tag into its name and omitempty flag.
func parseJSONTag(tag string) (string, bool) {
	name, opts, _ := strings.Cut(tag, ",")
	omitEmpty := false
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

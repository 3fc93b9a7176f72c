package crosswalk

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

// Validator checks that metadata fields met during ingest exist in the
// field registry, creating them on request. Results are cached per field.
type Validator struct {
	fields *schema.Registry

	mu    sync.Mutex
	cache map[content.MetadataField]*schema.Field
}

// NewValidator returns a validator over fields.
func NewValidator(fields *schema.Registry) *Validator {
	return &Validator{
		fields: fields,
		cache:  make(map[content.MetadataField]*schema.Field),
	}
}

// CheckMetadata returns the registry entry of schema.element.qualifier. A
// missing schema or field is created when forceCreate is set; a created
// schema gets a generated urn:uuid namespace. Otherwise a missing schema or
// field is an ErrMetadataValidation error.
func (v *Validator) CheckMetadata(prefix, element, qualifier string, forceCreate bool) (*schema.Field, error) {
	key := content.NewField(prefix, element, qualifier)

	v.mu.Lock()
	defer v.mu.Unlock()
	if f, ok := v.cache[key]; ok {
		return f, nil
	}

	if _, ok := v.fields.Schema(prefix); !ok {
		if !forceCreate {
			return nil, Invalid("unknown metadata schema %q in field %s", prefix, key)
		}
		if _, err := v.fields.AddSchema(prefix, "urn:uuid:"+uuid.NewString()); err != nil {
			return nil, Failed("creating metadata schema "+prefix, err)
		}
	}

	f, ok := v.fields.Field(prefix, element, qualifier)
	if !ok {
		if !forceCreate {
			return nil, Invalid("unknown metadata field %s", key)
		}
		created, err := v.fields.AddField(prefix, element, qualifier, "")
		if err != nil {
			return nil, Failed("creating metadata field "+key.String(), err)
		}
		f = created
	}
	v.cache[key] = f
	return f, nil
}

// CheckMetadata decides whether a value of field f may be stored. With
// createMissing set, or the missing_field policy "add", unknown fields are
// created. Under "ignore" an unknown field returns false and no error so the
// caller skips the value; under "fail" it returns ErrMetadataValidation.
func CheckMetadata(ctx context.Context, env *Env, f content.MetadataField, createMissing bool) (bool, error) {
	policy := config.MissingFieldFail
	if env.Config != nil {
		policy = env.Config.MissingField
	}
	force := createMissing || policy == config.MissingFieldAdd

	_, err := env.Validator().CheckMetadata(f.Schema, f.Element, f.Qualifier, force)
	if err == nil {
		return true, nil
	}
	if policy == config.MissingFieldIgnore && !force {
		slogcontext.Log(ctx, slog.LevelWarn, "skipping value of unknown metadata field", "field", f.String())
		return false, nil
	}
	return false, err
}

// AddChecked validates f and adds a value to obj. It reports whether the
// value was stored.
func AddChecked(ctx context.Context, env *Env, obj content.Object, f content.MetadataField, lang, value, authority string, confidence int, createMissing bool) (bool, error) {
	ok, err := CheckMetadata(ctx, env, f, createMissing)
	if err != nil || !ok {
		return false, err
	}
	obj.Base().AddMetadata(f, lang, value, authority, confidence)
	return true, nil
}

// AddField is AddChecked for a plain value of a dotted field name.
func AddField(ctx context.Context, env *Env, obj content.Object, field, lang, value string, createMissing bool) error {
	f, err := content.ParseField(field)
	if err != nil {
		return Invalid("%v", err)
	}
	if _, err := AddChecked(ctx, env, obj, f, lang, value, "", content.ConfidenceUnset, createMissing); err != nil {
		return fmt.Errorf("adding %s: %w", field, err)
	}
	return nil
}

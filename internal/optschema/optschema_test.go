package optschema

import (
	"errors"
	"testing"

	"github.com/solforge/svmsdk/internal/config"
)

func TestValidate_AppliesDefaults(t *testing.T) {
	schema := Schema{
		{Name: "lamports", Kind: KindNonNegativeInt, Required: true},
		{Name: "space", Kind: KindNonNegativeInt, Default: int64(0)},
	}

	out, err := schema.Validate(map[string]any{"lamports": 100})
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if out["lamports"] != int64(100) {
		t.Errorf("lamports = %v, want 100", out["lamports"])
	}
	if out["space"] != int64(0) {
		t.Errorf("space default = %v, want 0", out["space"])
	}
}

func TestValidate_RejectsUnknownField(t *testing.T) {
	schema := Schema{{Name: "lamports", Kind: KindNonNegativeInt}}
	_, err := schema.Validate(map[string]any{"bogus": 1})
	if !errors.Is(err, config.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestValidate_RejectsMissingRequired(t *testing.T) {
	schema := Schema{{Name: "lamports", Kind: KindNonNegativeInt, Required: true}}
	_, err := schema.Validate(map[string]any{})
	if !errors.Is(err, config.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestValidate_IntRange(t *testing.T) {
	schema := Schema{{Name: "m", Kind: KindIntRange, Min: 1, Max: 11, Required: true}}

	if _, err := schema.Validate(map[string]any{"m": 5}); err != nil {
		t.Errorf("Validate(5) error = %v, want nil", err)
	}
	if _, err := schema.Validate(map[string]any{"m": 0}); !errors.Is(err, config.ErrInvalidSchema) {
		t.Errorf("Validate(0) expected ErrInvalidSchema, got %v", err)
	}
	if _, err := schema.Validate(map[string]any{"m": 12}); !errors.Is(err, config.ErrInvalidSchema) {
		t.Errorf("Validate(12) expected ErrInvalidSchema, got %v", err)
	}
}

func TestValidate_InSet(t *testing.T) {
	schema := Schema{{Name: "commitment", Kind: KindInSet, Set: []string{"processed", "confirmed", "finalized"}, Required: true}}

	if _, err := schema.Validate(map[string]any{"commitment": "confirmed"}); err != nil {
		t.Errorf("Validate(confirmed) error = %v, want nil", err)
	}
	if _, err := schema.Validate(map[string]any{"commitment": "rooted"}); !errors.Is(err, config.ErrInvalidSchema) {
		t.Error("expected ErrInvalidSchema for unrecognized commitment")
	}
}

func TestValidate_Key(t *testing.T) {
	schema := Schema{{Name: "owner", Kind: KindKey, Required: true}}

	if _, err := schema.Validate(map[string]any{"owner": make([]byte, 32)}); err != nil {
		t.Errorf("Validate(32 bytes) error = %v, want nil", err)
	}
	if _, err := schema.Validate(map[string]any{"owner": make([]byte, 31)}); !errors.Is(err, config.ErrInvalidSchema) {
		t.Error("expected ErrInvalidSchema for 31-byte key")
	}
}

func TestValidate_Bool(t *testing.T) {
	schema := Schema{{Name: "checked", Kind: KindBool, Default: false}}

	out, err := schema.Validate(map[string]any{"checked": true})
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if out["checked"] != true {
		t.Errorf("checked = %v, want true", out["checked"])
	}
}

func TestValidate_Custom(t *testing.T) {
	schema := Schema{{
		Name: "decimals",
		Kind: KindCustom,
		Predicate: func(v any) error {
			n, ok := v.(int)
			if !ok || n > 9 {
				return errors.New("decimals must be <= 9")
			}
			return nil
		},
		Required: true,
	}}

	if _, err := schema.Validate(map[string]any{"decimals": 6}); err != nil {
		t.Errorf("Validate(6) error = %v, want nil", err)
	}
	if _, err := schema.Validate(map[string]any{"decimals": 20}); !errors.Is(err, config.ErrInvalidSchema) {
		t.Error("expected ErrInvalidSchema for decimals=20")
	}
}

package dice

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

func TestRollDice_Basic(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{
			name:    "single d6",
			request: Request{Dice: []Spec{{Sides: 6, Count: 1}}, Seed: 42},
		},
		{
			name:    "2d6 + 1d8",
			request: Request{Dice: []Spec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}}, Seed: 42},
		},
		{
			name:    "no dice",
			request: Request{Dice: []Spec{}, Seed: 42},
			wantErr: ErrMissingDice,
		},
		{
			name:    "invalid sides",
			request: Request{Dice: []Spec{{Sides: 0, Count: 1}}, Seed: 42},
			wantErr: ErrInvalidDiceSpec,
		},
		{
			name:    "invalid count",
			request: Request{Dice: []Spec{{Sides: 6, Count: 0}}, Seed: 42},
			wantErr: ErrInvalidDiceSpec,
		},
		{
			name:    "too many dice",
			request: Request{Dice: []Spec{{Sides: 6, Count: MaxDiceCount + 1}}, Seed: 42},
			wantErr: ErrInvalidDiceSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RollDice(tt.request)
			if !sameError(err, tt.wantErr) {
				t.Fatalf("RollDice() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, ErrInvalidDie) {
					t.Fatalf("expected %v to be an invalid die error", err)
				}
				return
			}

			if len(result.Rolls) != len(tt.request.Dice) {
				t.Fatalf("RollDice() got %d rolls, want %d", len(result.Rolls), len(tt.request.Dice))
			}
			total := 0
			for i, roll := range result.Rolls {
				spec := tt.request.Dice[i]
				if len(roll.Results) != spec.Count || roll.Sides != spec.Sides {
					t.Errorf("Roll[%d] = %+v, want %s", i, roll, spec)
				}
				sum := 0
				for j, r := range roll.Results {
					if r < 1 || r > roll.Sides {
						t.Errorf("Roll[%d].Results[%d] = %d, out of range [1, %d]", i, j, r, roll.Sides)
					}
					sum += r
				}
				if roll.Total != sum {
					t.Errorf("Roll[%d].Total = %d, want %d", i, roll.Total, sum)
				}
				total += roll.Total
			}
			if result.Total != total {
				t.Errorf("Result.Total = %d, want %d", result.Total, total)
			}
		})
	}
}

func TestRollDice_Determinism(t *testing.T) {
	request := Request{
		Dice: []Spec{{Sides: 12, Count: 2}, {Sides: 6, Count: 4}},
		Seed: 12345,
	}

	first, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	second, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestRollWithRngMatchesFromSpecs(t *testing.T) {
	specs := []Spec{{Sides: 6, Count: 2}, {Sides: 4, Count: 1}}

	result, err := RollWithRng(rand.New(rand.NewSource(42)), specs)
	if err != nil {
		t.Fatalf("RollWithRng() error = %v", err)
	}
	d, err := FromSpecs(specs...)
	if err != nil {
		t.Fatalf("FromSpecs() error = %v", err)
	}
	v, err := d.Sample(rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if v != result.Total {
		t.Fatalf("summed die drew %d, roll total %d", v, result.Total)
	}
	if d.Bound() != 16 {
		t.Fatalf("Bound() = %d, want 16", d.Bound())
	}
}

func TestParseNotation(t *testing.T) {
	tests := []struct {
		in        string
		want      []Spec
		wantErr   error
		wantValue string
	}{
		{in: "d20", want: []Spec{{Sides: 20, Count: 1}}},
		{in: "2D6", want: []Spec{{Sides: 6, Count: 2}}},
		{in: "2d6 + 1d8", want: []Spec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}}},
		{in: "1000d6", want: []Spec{{Sides: 6, Count: 1000}}},
		{in: "", wantErr: ErrMissingDice},
		{in: "six", wantErr: ErrInvalidDiceSpec},
		{in: "0d6", wantErr: ErrInvalidDiceSpec},
		{in: "2dx", wantErr: ErrInvalidDiceSpec},
		{in: "1001d6", wantErr: ErrInvalidDiceSpec, wantValue: "1001"},
		{in: "9000000000000000000d6", wantErr: ErrInvalidDiceSpec, wantValue: "9000000000000000000"},
		{in: "600d6+500d4", wantErr: ErrInvalidDiceSpec, wantValue: "500"},
		{in: "d1001", wantErr: ErrInvalidDiceSpec, wantValue: "1001"},
		{in: "99999999999999999999d6", wantErr: ErrInvalidDiceSpec},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNotation(tt.in)
			if !sameError(err, tt.wantErr) {
				t.Fatalf("ParseNotation(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if tt.wantValue != "" {
				if v := metadata(t, err)[apperrors.MetaValue]; v != tt.wantValue {
					t.Fatalf("ParseNotation(%q) value = %q, want %q", tt.in, v, tt.wantValue)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseNotation(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// sameError matches sentinels that share a code by message as well.
func sameError(err, want error) bool {
	if want == nil {
		return err == nil
	}
	var got, target *apperrors.Error
	if !errors.As(err, &got) || !errors.As(want, &target) {
		return false
	}
	return got.Code == target.Code && got.Message == target.Message
}

func TestSequentialRejectsHugeSides(t *testing.T) {
	if _, err := Sequential(MaxOutcomes + 1); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("Sequential() error = %v, want ErrInvalidDie", err)
	}
}

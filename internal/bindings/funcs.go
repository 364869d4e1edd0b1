package bindings

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"cyclebind/internal/values"
)

// The builtin function library. Every function here is deterministic
// for a given cycle and safe for concurrent use.

const alphaNumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// splitmix64 is the mixing function used to derive pseudo-random but
// cycle-deterministic values. One call fully avalanches the input.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func init() {
	globalRegistry.MustRegister(&Entry{
		Name:        "AlphaNumeric",
		Description: "A string of n pseudo-random alphanumeric characters, deterministic per cycle",
		Category:    CategoryText,
		ThreadSafe:  true,
		Construct:   newAlphaNumeric,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "Hash",
		Description: "A well-mixed non-negative int64 derived from the cycle",
		Category:    CategoryNumeric,
		ThreadSafe:  true,
		Construct:   newHash,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "Mod",
		Description: "The cycle modulo n",
		Category:    CategoryNumeric,
		ThreadSafe:  true,
		Construct:   newMod,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "Add",
		Description: "The cycle plus a fixed offset",
		Category:    CategoryNumeric,
		ThreadSafe:  true,
		Construct:   newAdd,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "FixedValue",
		Description: "The same value for every cycle",
		Category:    CategoryGeneral,
		ThreadSafe:  true,
		Construct:   newFixedValue,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "ToString",
		Description: "The cycle rendered as a decimal string",
		Category:    CategoryText,
		ThreadSafe:  true,
		Construct:   newToString,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "NumberNameToString",
		Description: "The cycle spelled out in English words",
		Category:    CategoryText,
		ThreadSafe:  true,
		Construct:   newNumberNameToString,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "Uniform",
		Description: "A cycle-deterministic int64 uniformly drawn from [lo,hi)",
		Category:    CategoryDistribution,
		ThreadSafe:  true,
		Construct:   newUniform,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "WeightedStrings",
		Description: "A string chosen by weight from a 'value:weight;...' spec",
		Category:    CategoryDistribution,
		ThreadSafe:  true,
		Construct:   newWeightedStrings,
	})
	globalRegistry.MustRegister(&Entry{
		Name:        "ToUUID",
		Description: "A cycle-deterministic version-5 UUID",
		Category:    CategoryIdentity,
		ThreadSafe:  true,
		Construct:   newToUUID,
	})
}

func wantArgs(args []values.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d args, got %d", ErrBadArgs, n, len(args))
	}
	return nil
}

func intArg(args []values.Value, i int) (int64, error) {
	n, err := args[i].AsInt()
	if err != nil {
		return 0, fmt.Errorf("%w: arg %d: %v", ErrBadArgs, i, err)
	}
	return n, nil
}

func newAlphaNumeric(args []values.Value) (Func, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	length, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrBadArgs, length)
	}
	return func(cycle int64) any {
		buf := make([]byte, length)
		state := uint64(cycle)
		for i := range buf {
			state = splitmix64(state)
			buf[i] = alphaNumericChars[state%uint64(len(alphaNumericChars))]
		}
		return string(buf)
	}, nil
}

func newHash(args []values.Value) (Func, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return func(cycle int64) any {
		return int64(splitmix64(uint64(cycle)) >> 1)
	}, nil
}

func newMod(args []values.Value) (Func, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	mod, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	if mod <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive, got %d", ErrBadArgs, mod)
	}
	return func(cycle int64) any {
		v := cycle % mod
		if v < 0 {
			v += mod
		}
		return v
	}, nil
}

func newAdd(args []values.Value) (Func, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	offset, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	return func(cycle int64) any {
		return cycle + offset
	}, nil
}

func newFixedValue(args []values.Value) (Func, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	fixed := args[0].Raw()
	return func(int64) any {
		return fixed
	}, nil
}

func newToString(args []values.Value) (Func, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return func(cycle int64) any {
		return strconv.FormatInt(cycle, 10)
	}, nil
}

func newNumberNameToString(args []values.Value) (Func, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return func(cycle int64) any {
		return spellNumber(cycle)
	}, nil
}

func newUniform(args []values.Value) (Func, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	lo, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := intArg(args, 1)
	if err != nil {
		return nil, err
	}
	if hi <= lo {
		return nil, fmt.Errorf("%w: Uniform(%d,%d): hi must exceed lo", ErrBadArgs, lo, hi)
	}
	span := uint64(hi - lo)
	return func(cycle int64) any {
		return lo + int64(splitmix64(uint64(cycle))%span)
	}, nil
}

func newWeightedStrings(args []values.Value) (Func, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	spec, err := args[0].AsString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArgs, err)
	}

	var choices []string
	var bounds []uint64
	var total uint64
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, weightText, found := strings.Cut(part, ":")
		weight := uint64(1)
		if found {
			w, err := strconv.ParseUint(strings.TrimSpace(weightText), 10, 32)
			if err != nil || w == 0 {
				return nil, fmt.Errorf("%w: bad weight in %q", ErrBadArgs, part)
			}
			weight = w
		}
		total += weight
		choices = append(choices, strings.TrimSpace(name))
		bounds = append(bounds, total)
	}
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: WeightedStrings needs at least one choice", ErrBadArgs)
	}

	return func(cycle int64) any {
		draw := splitmix64(uint64(cycle)) % total
		for i, bound := range bounds {
			if draw < bound {
				return choices[i]
			}
		}
		return choices[len(choices)-1]
	}, nil
}

func newToUUID(args []values.Value) (Func, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return func(cycle int64) any {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(cycle))
		return uuid.NewSHA1(uuid.NameSpaceOID, buf[:]).String()
	}, nil
}

var (
	smallNumbers = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
		"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}
	tensNumbers = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
		"eighty", "ninety",
	}
	scaleNumbers = []string{
		"", "thousand", "million", "billion", "trillion", "quadrillion",
		"quintillion",
	}
)

// spellNumber renders n in English words.
func spellNumber(n int64) string {
	if n == 0 {
		return "zero"
	}
	var parts []string
	if n < 0 {
		parts = append(parts, "negative")
		n = -n
	}

	// Split into thousands groups, most significant first.
	var groups []int64
	for n > 0 {
		groups = append([]int64{n % 1000}, groups...)
		n /= 1000
	}
	for i, g := range groups {
		if g == 0 {
			continue
		}
		parts = append(parts, spellGroup(g))
		if scale := scaleNumbers[len(groups)-1-i]; scale != "" {
			parts = append(parts, scale)
		}
	}
	return strings.Join(parts, " ")
}

func spellGroup(g int64) string {
	var parts []string
	if g >= 100 {
		parts = append(parts, smallNumbers[g/100], "hundred")
		g %= 100
	}
	switch {
	case g == 0:
	case g < 20:
		parts = append(parts, smallNumbers[g])
	default:
		tens := tensNumbers[g/10]
		if ones := g % 10; ones != 0 {
			parts = append(parts, tens+"-"+smallNumbers[ones])
		} else {
			parts = append(parts, tens)
		}
	}
	return strings.Join(parts, " ")
}

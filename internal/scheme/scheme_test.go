package scheme

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmylchreest/mdyou/internal/colour"
	"github.com/jmylchreest/mdyou/internal/tonal"
)

var hexRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// probePalette encodes its palette id in red and the tone in blue.
type probePalette struct {
	id uint32
}

func (p probePalette) Tone(tone int) uint32 {
	return 0xFF000000 | p.id<<16 | uint32(tone)
}

// probeLibrary returns probe palettes so tests can read back which
// palette and tone each role came from.
type probeLibrary struct {
	ready atomic.Bool
	calls atomic.Int32
	err   error
	panic bool
}

func newProbeLibrary(ready bool) *probeLibrary {
	l := &probeLibrary{}
	l.ready.Store(ready)
	return l
}

func (l *probeLibrary) Name() string { return "probe" }

func (l *probeLibrary) Ready() bool { return l.ready.Load() }

func (l *probeLibrary) Theme(_ context.Context, _ uint32, _ bool) (*tonal.Theme, error) {
	l.calls.Add(1)
	if l.panic {
		panic("boom")
	}
	if l.err != nil {
		return nil, l.err
	}
	return &tonal.Theme{
		Primary:        probePalette{id: 1},
		Secondary:      probePalette{id: 2},
		Tertiary:       probePalette{id: 3},
		Neutral:        probePalette{id: 4},
		NeutralVariant: probePalette{id: 5},
		Error:          probePalette{id: 6},
	}, nil
}

func decodeProbe(t *testing.T, set RoleColorSet, role Role) (palette, tone int) {
	t.Helper()
	rgb, ok := set.Get(role)
	if !ok {
		t.Fatalf("role %s missing", role)
	}
	return int(rgb.R), int(rgb.B)
}

func assertComplete(t *testing.T, set RoleColorSet) {
	t.Helper()
	if !set.IsValid() {
		t.Fatal("set is not valid")
	}
	m := set.Map()
	if len(m) != RoleCount {
		t.Fatalf("set has %d roles, want %d", len(m), RoleCount)
	}
	for _, role := range AllRoles() {
		hex, ok := m[role]
		if !ok {
			t.Errorf("role %s missing", role)
			continue
		}
		if !hexRe.MatchString(hex) {
			t.Errorf("role %s = %q is not #RRGGBB", role, hex)
		}
	}
}

func TestRoles(t *testing.T) {
	roles := AllRoles()
	if len(roles) != RoleCount {
		t.Fatalf("AllRoles() has %d roles, want %d", len(roles), RoleCount)
	}
	seen := make(map[Role]bool)
	for _, r := range roles {
		if seen[r] {
			t.Errorf("duplicate role %s", r)
		}
		seen[r] = true
		if !r.IsValid() {
			t.Errorf("role %s not valid", r)
		}
	}
	if Role("inverseSurface").IsValid() {
		t.Error("inverseSurface should not be a valid role")
	}

	roles[0] = "mutated"
	if AllRoles()[0] != RolePrimary {
		t.Error("AllRoles() must return a copy")
	}
}

func TestParseThemeMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ThemeMode
		wantErr bool
	}{
		{"light", ThemeLight, false},
		{"DARK", ThemeDark, false},
		{" dark ", ThemeDark, false},
		{"auto", ThemeLight, true},
		{"", ThemeLight, true},
	}
	for _, tt := range tests {
		got, err := ParseThemeMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseThemeMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseThemeMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if ModeFromDark(true) != ThemeDark || ModeFromDark(false) != ThemeLight {
		t.Error("ModeFromDark mismatch")
	}
}

func TestFallbackComplete(t *testing.T) {
	sources := []string{"#1976D2", "#6750A4", "#000000", "#FFFFFF", "#808080", "not-a-colour"}
	for _, src := range sources {
		for _, mode := range []ThemeMode{ThemeLight, ThemeDark} {
			t.Run(src+"/"+mode.String(), func(t *testing.T) {
				assertComplete(t, Fallback(src, mode))
			})
		}
	}
}

func TestFallbackLight(t *testing.T) {
	set := Fallback("#1976D2", ThemeLight)

	want := map[Role]string{
		RolePrimary:            "#1666B6",
		RoleOnPrimary:          "#FFFFFF",
		RolePrimaryContainer:   "#D1E6FA",
		RoleOnPrimaryContainer: "#051A2E",
		RoleBackground:         "#FFFFFF",
		RoleOnBackground:       "#0B335B",
		RoleSurface:            "#FFFFFF",
		RoleOnSurface:          "#0B335B",
		RoleSurfaceVariant:     "#E7E0EC",
		RoleOnSurfaceVariant:   "#49454F",
		RoleOutline:            "#79747E",
		RoleOutlineVariant:     "#CAC7D0",
		RoleError:              "#B3261E",
		RoleOnError:            "#FFFFFF",
		RoleErrorContainer:     "#F9DEDC",
		RoleOnErrorContainer:   "#410E0B",
		RoleScrim:              "#000000",
	}
	for role, hex := range want {
		if got := set.Hex(role); got != hex {
			t.Errorf("%s = %s, want %s", role, got, hex)
		}
	}

	// The three accent families are identical in the fallback.
	for i := range 4 {
		p := set.Hex(accentFamilies[0][i])
		if set.Hex(accentFamilies[1][i]) != p || set.Hex(accentFamilies[2][i]) != p {
			t.Errorf("accent family slot %d differs across families", i)
		}
	}
}

func TestFallbackDark(t *testing.T) {
	set := Fallback("#1976D2", ThemeDark)

	want := map[Role]string{
		RolePrimary:            "#A4CCF4",
		RoleOnPrimary:          "#0B335B",
		RolePrimaryContainer:   "#104D89",
		RoleOnPrimaryContainer: "#D1E6FA",
		RoleTertiary:           "#A4CCF4",
		RoleBackground:         "#082644",
		RoleOnBackground:       "#BBD9F7",
		RoleSurface:            "#082644",
		RoleOnSurface:          "#BBD9F7",
		RoleSurfaceVariant:     "#0E4072",
		RoleOnSurfaceVariant:   "#BBD9F7",
		RoleOutline:            "#328DE7",
		RoleOutlineVariant:     "#104D89",
		RoleError:              "#F2B8B5",
		RoleOnError:            "#601410",
		RoleErrorContainer:     "#8C1D18",
		RoleOnErrorContainer:   "#F9DEDC",
		RoleScrim:              "#000000",
	}
	for role, hex := range want {
		if got := set.Hex(role); got != hex {
			t.Errorf("%s = %s, want %s", role, got, hex)
		}
	}
}

func TestFallbackConstantsIgnoreSource(t *testing.T) {
	for _, src := range []string{"#1976D2", "#FF0000", "#00FF00", "garbage"} {
		light := Fallback(src, ThemeLight)
		if light.Hex(RoleBackground) != "#FFFFFF" || light.Hex(RoleError) != "#B3261E" {
			t.Errorf("light fallback for %s: background %s error %s", src, light.Hex(RoleBackground), light.Hex(RoleError))
		}

		dark := Fallback(src, ThemeDark)
		if dark.Hex(RoleScrim) != "#000000" || dark.Hex(RoleError) != "#F2B8B5" {
			t.Errorf("dark fallback for %s: scrim %s error %s", src, dark.Hex(RoleScrim), dark.Hex(RoleError))
		}
	}
}

func TestFallbackMalformedIsBlack(t *testing.T) {
	// Black has no saturation, so derived roles become greys.
	set := Fallback("#XYZ", ThemeDark)
	if got := set.Hex(RolePrimary); got != "#CCCCCC" {
		t.Errorf("primary = %s, want #CCCCCC", got)
	}
	if !set.Equal(Fallback("#000000", ThemeDark)) {
		t.Error("malformed source should behave as black")
	}
}

func TestFromThemeToneTable(t *testing.T) {
	lib := newProbeLibrary(true)

	type want struct {
		palette int
		tone    int
	}
	expect := map[ThemeMode]map[Role]want{
		ThemeLight: {
			RoleBackground:       {4, 99},
			RoleOnBackground:     {4, 10},
			RoleSurface:          {4, 99},
			RoleOnSurface:        {4, 10},
			RoleSurfaceVariant:   {5, 90},
			RoleOnSurfaceVariant: {5, 30},
			RoleOutline:          {5, 50},
			RoleOutlineVariant:   {5, 80},
			RoleScrim:            {4, 0},
		},
		ThemeDark: {
			RoleBackground:       {4, 10},
			RoleOnBackground:     {4, 90},
			RoleSurface:          {4, 10},
			RoleOnSurface:        {4, 90},
			RoleSurfaceVariant:   {5, 30},
			RoleOnSurfaceVariant: {5, 80},
			RoleOutline:          {5, 60},
			RoleOutlineVariant:   {5, 30},
			RoleScrim:            {4, 0},
		},
	}

	families := []struct {
		palette int
		roles   [4]Role
	}{
		{1, accentFamilies[0]},
		{2, accentFamilies[1]},
		{3, accentFamilies[2]},
		{6, [4]Role{RoleError, RoleOnError, RoleErrorContainer, RoleOnErrorContainer}},
	}
	familyTones := [4]int{40, 100, 90, 10}

	for mode, roles := range expect {
		theme, _ := lib.Theme(context.Background(), 0, mode.IsDark())
		set, err := FromTheme(theme, mode)
		if err != nil {
			t.Fatalf("FromTheme(%s) error = %v", mode, err)
		}
		assertComplete(t, set)

		for role, w := range roles {
			p, tone := decodeProbe(t, set, role)
			if p != w.palette || tone != w.tone {
				t.Errorf("%s %s = palette %d tone %d, want palette %d tone %d", mode, role, p, tone, w.palette, w.tone)
			}
		}

		// Accent and error families use the same tones in both modes.
		for _, f := range families {
			for i, role := range f.roles {
				p, tone := decodeProbe(t, set, role)
				if p != f.palette || tone != familyTones[i] {
					t.Errorf("%s %s = palette %d tone %d, want palette %d tone %d", mode, role, p, tone, f.palette, familyTones[i])
				}
			}
		}
	}
}

func TestFromThemeRejectsIncompleteTheme(t *testing.T) {
	if _, err := FromTheme(&tonal.Theme{Primary: probePalette{}}, ThemeLight); err == nil {
		t.Error("Expected error for theme missing palettes")
	}
}

func TestGeneratorLibraryPath(t *testing.T) {
	lib := newProbeLibrary(true)
	g := New(Options{Library: lib})

	res := g.Generate(context.Background(), "#1976D2", ThemeDark)
	if res.Source != SourceLibrary {
		t.Fatalf("Source = %s, want library (reason: %v)", res.Source, res.Reason)
	}
	if res.Reason != nil {
		t.Errorf("Reason = %v, want nil", res.Reason)
	}
	assertComplete(t, res.Colors)
	if !g.Resolved() {
		t.Error("generator should be resolved after Generate")
	}
}

func TestGeneratorMatcolorLibrary(t *testing.T) {
	g := New(Options{Library: tonal.NewMatcolor()})

	for _, mode := range []ThemeMode{ThemeLight, ThemeDark} {
		res := g.Generate(context.Background(), "#1976D2", mode)
		if res.Source != SourceLibrary {
			t.Fatalf("Source = %s, want library (reason: %v)", res.Source, res.Reason)
		}
		assertComplete(t, res.Colors)
		if got := res.Colors.Hex(RoleScrim); got != "#000000" {
			t.Errorf("%s scrim = %s, want #000000", mode, got)
		}
		if got := res.Colors.Hex(RoleOnPrimary); got != "#FFFFFF" {
			t.Errorf("%s onPrimary = %s, want #FFFFFF", mode, got)
		}
	}

	light := g.Generate(context.Background(), "#1976D2", ThemeLight).Colors
	dark := g.Generate(context.Background(), "#1976D2", ThemeDark).Colors
	if light.Hex(RoleError) != dark.Hex(RoleError) {
		t.Error("error role should not depend on mode in the library path")
	}
	if light.Hex(RoleBackground) == dark.Hex(RoleBackground) {
		t.Error("background should differ between modes in the library path")
	}
}

func TestGeneratorNoLibrary(t *testing.T) {
	g := New(Options{})

	res := g.Generate(context.Background(), "#1976D2", ThemeLight)
	if res.Source != SourceFallback {
		t.Fatalf("Source = %s, want fallback", res.Source)
	}
	if !errors.Is(res.Reason, ErrLibraryUnavailable) {
		t.Errorf("Reason = %v, want ErrLibraryUnavailable", res.Reason)
	}
	if !res.Colors.Equal(Fallback("#1976D2", ThemeLight)) {
		t.Error("fallback result differs from Fallback()")
	}
	if g.LibraryName() != "none" {
		t.Errorf("LibraryName() = %s, want none", g.LibraryName())
	}
}

func TestGeneratorLibraryErrorFallsBack(t *testing.T) {
	lib := newProbeLibrary(true)
	lib.err = errors.New("theme construction failed")
	g := New(Options{Library: lib})

	_, err := g.FromLibrary(context.Background(), "#1976D2", ThemeDark)
	if !errors.Is(err, ErrLibraryUnavailable) {
		t.Fatalf("FromLibrary() error = %v, want ErrLibraryUnavailable", err)
	}
	if !errors.Is(err, lib.err) {
		t.Errorf("FromLibrary() error = %v, should wrap the library error", err)
	}

	res := g.Generate(context.Background(), "#1976D2", ThemeDark)
	if res.Source != SourceFallback {
		t.Fatalf("Source = %s, want fallback", res.Source)
	}
	assertComplete(t, res.Colors)
	if res.Colors.Hex(RoleError) != "#F2B8B5" {
		t.Errorf("error = %s, want #F2B8B5", res.Colors.Hex(RoleError))
	}
}

func TestGeneratorLibraryPanicFallsBack(t *testing.T) {
	lib := newProbeLibrary(true)
	lib.panic = true
	g := New(Options{Library: lib})

	res := g.Generate(context.Background(), "#6750A4", ThemeLight)
	if res.Source != SourceFallback {
		t.Fatalf("Source = %s, want fallback", res.Source)
	}
	if !errors.Is(res.Reason, ErrLibraryUnavailable) {
		t.Errorf("Reason = %v, want ErrLibraryUnavailable", res.Reason)
	}
}

func TestGeneratorWaitsForLibrary(t *testing.T) {
	lib := newProbeLibrary(false)
	g := New(Options{Library: lib, WaitTimeout: 2 * time.Second, PollInterval: 5 * time.Millisecond})

	go func() {
		time.Sleep(30 * time.Millisecond)
		lib.ready.Store(true)
	}()

	res := g.Generate(context.Background(), "#1976D2", ThemeLight)
	if res.Source != SourceLibrary {
		t.Fatalf("Source = %s, want library (reason: %v)", res.Source, res.Reason)
	}
}

func TestGeneratorTimeout(t *testing.T) {
	lib := newProbeLibrary(false)
	g := New(Options{Library: lib, WaitTimeout: 50 * time.Millisecond, PollInterval: 5 * time.Millisecond})

	start := time.Now()
	res := g.Generate(context.Background(), "#1976D2", ThemeDark)
	elapsed := time.Since(start)

	if res.Source != SourceFallback {
		t.Fatalf("Source = %s, want fallback", res.Source)
	}
	assertComplete(t, res.Colors)
	if elapsed > time.Second {
		t.Errorf("Generate took %v, should be bounded by the wait timeout", elapsed)
	}
	if !g.Resolved() {
		t.Fatal("generator should be resolved after the timeout")
	}

	// Resolved: no second wait.
	start = time.Now()
	if g.WaitReady(context.Background()) {
		t.Error("WaitReady() = true after timeout")
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Error("WaitReady should return immediately once resolved")
	}
	if lib.calls.Load() != 0 {
		t.Errorf("library Theme called %d times while not ready", lib.calls.Load())
	}

	// A library that becomes ready later is still used without polling.
	lib.ready.Store(true)
	if res := g.Generate(context.Background(), "#1976D2", ThemeDark); res.Source != SourceLibrary {
		t.Errorf("Source = %s, want library once ready", res.Source)
	}
}

func TestGeneratorWaitCancelled(t *testing.T) {
	g := New(Options{Library: newProbeLibrary(false), WaitTimeout: time.Minute, PollInterval: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if g.WaitReady(ctx) {
		t.Error("WaitReady() = true for a library that is never ready")
	}
	if g.Resolved() {
		t.Error("a cancelled wait should not resolve the generator")
	}
}

func TestRoleColorSetJSON(t *testing.T) {
	set := Fallback("#1976D2", ThemeLight)

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded RoleColorSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.Equal(set) {
		t.Errorf("decoded set differs in roles %v", decoded.Diff(set))
	}

	if err := json.Unmarshal([]byte(`{"primary":"#FFFFFF"}`), &decoded); err == nil {
		t.Error("Expected error for partial set")
	}
	if _, err := json.Marshal(RoleColorSet{}); err == nil {
		t.Error("Expected error marshalling the zero set")
	}
}

func TestNewRoleColorSet(t *testing.T) {
	m := make(map[Role]colour.RGB)
	for _, r := range AllRoles() {
		m[r] = colour.White
	}
	set, err := NewRoleColorSet(m)
	if err != nil {
		t.Fatalf("NewRoleColorSet() error = %v", err)
	}
	assertComplete(t, set)

	delete(m, RoleScrim)
	if _, err := NewRoleColorSet(m); err == nil {
		t.Error("Expected error for missing scrim")
	}

	m[RoleScrim] = colour.Black
	m["shadow"] = colour.Black
	if _, err := NewRoleColorSet(m); err == nil {
		t.Error("Expected error for unknown role")
	}

	var zero RoleColorSet
	if _, ok := zero.Get(RolePrimary); ok {
		t.Error("zero set should not return colours")
	}
}

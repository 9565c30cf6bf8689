package preprocessing

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/YuminosukeSato/housepriceai/dataset"
	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

func mustRead(t *testing.T, csv string) dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	return ds
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		name   string
		values []dataset.Value
		want   ColumnRole
	}{
		{"numeric", []dataset.Value{dataset.NumberValue(1), dataset.StringValue("x")}, Numeric},
		{"leading blanks then number", []dataset.Value{dataset.MissingValue(), dataset.StringValue(""), dataset.Parse("3")}, Numeric},
		{"categorical", []dataset.Value{dataset.StringValue("Downtown"), dataset.NumberValue(2)}, Categorical},
		{"numeric string", []dataset.Value{dataset.StringValue(" 12 ")}, Numeric},
		{"all empty", []dataset.Value{dataset.MissingValue(), dataset.MissingValue()}, Numeric},
		{"no values", nil, Numeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferRole(tt.values); got != tt.want {
				t.Errorf("InferRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncoder(t *testing.T) {
	values := []dataset.Value{
		dataset.StringValue("Suburb"),
		dataset.StringValue("Downtown"),
		dataset.MissingValue(),
		dataset.StringValue("Rural"),
		dataset.StringValue("Downtown"),
	}
	enc := NewEncoder("location", values)

	wantCategories := []string{"Downtown", "Rural", "Suburb", "Unknown"}
	if !reflect.DeepEqual(enc.Categories, wantCategories) {
		t.Errorf("Categories = %v, want %v", enc.Categories, wantCategories)
	}
	if !reflect.DeepEqual(enc.Kept, wantCategories[1:]) {
		t.Errorf("Kept = %v, want %v", enc.Kept, wantCategories[1:])
	}
	if enc.Width() != 3 {
		t.Errorf("Width() = %d, want 3", enc.Width())
	}

	tests := []struct {
		in   dataset.Value
		want []float64
	}{
		{dataset.StringValue("Rural"), []float64{1, 0, 0}},
		{dataset.StringValue("Suburb"), []float64{0, 1, 0}},
		{dataset.MissingValue(), []float64{0, 0, 1}},
		{dataset.StringValue("Downtown"), []float64{0, 0, 0}},
		{dataset.StringValue("Mars"), []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := enc.Encode(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Encode(%q) = %v, want %v", tt.in.String(), got, tt.want)
		}
	}

	wantNames := []string{"location_Rural", "location_Suburb", "location_Unknown"}
	if !reflect.DeepEqual(enc.Names(), wantNames) {
		t.Errorf("Names() = %v, want %v", enc.Names(), wantNames)
	}
	opts := enc.Options()
	opts[0] = "mutated"
	if enc.Categories[0] != "Downtown" {
		t.Error("Options() must return a copy")
	}
}

func TestEncoderSingleCategoryKept(t *testing.T) {
	enc := NewEncoder("city", []dataset.Value{dataset.StringValue("Tokyo"), dataset.StringValue("Tokyo")})
	if !reflect.DeepEqual(enc.Kept, []string{"Tokyo"}) {
		t.Fatalf("Kept = %v, want [Tokyo]", enc.Kept)
	}
	if got := enc.Encode(dataset.StringValue("Tokyo")); !reflect.DeepEqual(got, []float64{1}) {
		t.Errorf("Encode() = %v", got)
	}
}

// k 個のカテゴリを持つ列は k-1 個（k==1 なら 1 個）の特徴量名に展開される
func TestExpandedNameCounts(t *testing.T) {
	for k := 1; k <= 5; k++ {
		var b strings.Builder
		b.WriteString("price,zone\n")
		for i := 0; i < k; i++ {
			b.WriteString("1,z")
			b.WriteByte(byte('a' + i))
			b.WriteByte('\n')
		}
		p := Preprocess(mustRead(t, b.String()), "price", []string{"zone"})

		want := k - 1
		if k == 1 {
			want = 1
		}
		if len(p.FeatureNamesAfterEncoding) != want {
			t.Errorf("k=%d: got %d names, want %d", k, len(p.FeatureNamesAfterEncoding), want)
		}
	}
}

func TestPreprocess(t *testing.T) {
	ds := mustRead(t, "price,area,location,garage\n"+
		"100,50,Downtown,1\n"+
		",60,Suburb,1\n"+
		"200,abc,Suburb,0\n"+
		"300,,,1\n"+
		"400,80,Rural,yes\n")

	p := Preprocess(ds, "price", []string{"location", "area", "garage"})

	if p.Len() != 4 {
		t.Fatalf("expected 4 valid rows, got %d", p.Len())
	}
	wantNames := []string{"location_Rural", "location_Suburb", "location_Unknown", "area", "garage"}
	if !reflect.DeepEqual(p.FeatureNamesAfterEncoding, wantNames) {
		t.Errorf("FeatureNamesAfterEncoding = %v, want %v", p.FeatureNamesAfterEncoding, wantNames)
	}
	if p.Roles["location"] != Categorical || p.Roles["area"] != Numeric || p.Roles["garage"] != Numeric {
		t.Errorf("unexpected roles: %v", p.Roles)
	}

	wantData := [][]float64{
		{0, 0, 0, 50, 1},
		{0, 1, 0, 0, 0},
		{0, 0, 1, 0, 1},
		{1, 0, 0, 80, 0},
	}
	if !reflect.DeepEqual(p.Data, wantData) {
		t.Errorf("Data = %v, want %v", p.Data, wantData)
	}
	if !reflect.DeepEqual(p.Labels, []float64{100, 200, 300, 400}) {
		t.Errorf("Labels = %v", p.Labels)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestPreprocessNonNumericTargetIsNaN(t *testing.T) {
	p := Preprocess(mustRead(t, "price,area\n100,1\nexpensive,2\n"), "price", []string{"area"})
	if len(p.Labels) != 2 || !math.IsNaN(p.Labels[1]) {
		t.Errorf("expected NaN label for non-numeric target, got %v", p.Labels)
	}
}

func TestPreprocessWarnsOnImputation(t *testing.T) {
	var warnings []error
	defer errors.SetWarningHandler(errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) }))

	Preprocess(mustRead(t, "price,area\n1,10\n2,n/a\n3,\n"), "price", []string{"area"})

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	var dcw *errors.DataConversionWarning
	if !errors.As(warnings[0], &dcw) || dcw.Column != "area" || dcw.Count != 1 {
		t.Errorf("unexpected warning: %v", warnings[0])
	}
}

func TestEncodeRecordMatchesDesignMatrix(t *testing.T) {
	ds := dataset.Sample()
	p := Preprocess(ds, "price", []string{"area_sqft", "bedrooms"})
	for i, r := range ds.Records {
		if got := p.EncodeRecord(r); !reflect.DeepEqual(got, p.Data[i]) {
			t.Fatalf("row %d: EncodeRecord() = %v, want %v", i, got, p.Data[i])
		}
	}

	// 欠損した入力は 0 になる
	if got := p.EncodeRecord(dataset.Record{}); !reflect.DeepEqual(got, []float64{0, 0}) {
		t.Errorf("EncodeRecord(empty) = %v", got)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	p := Preprocess(dataset.Sample(), "price", []string{"area_sqft"})
	p.Labels = p.Labels[:3]
	if err := p.Validate(); !errors.Is(err, errors.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
}

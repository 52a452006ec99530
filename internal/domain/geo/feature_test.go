package geo

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeGeometry(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode geometry: %v", err)
	}
	return m
}

func TestConvertGeometry_WKTList(t *testing.T) {
	out, err := ConvertGeometry(json.RawMessage(`["POINT (10 20)"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := decodeGeometry(t, out)
	if g["type"] != "Point" {
		t.Errorf("type = %v", g["type"])
	}
	coords, _ := g["coordinates"].([]any)
	if !reflect.DeepEqual(coords, []any{10.0, 20.0}) {
		t.Errorf("coordinates = %v", coords)
	}
}

func TestConvertGeometry_SingleWKTString(t *testing.T) {
	out, err := ConvertGeometry(json.RawMessage(`"POINT (1 2)"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decodeGeometry(t, out)["type"] != "Point" {
		t.Errorf("geometry = %s", out)
	}
}

func TestConvertGeometry_BBOXShorthand(t *testing.T) {
	out, err := ConvertGeometry(json.RawMessage(`["BBOX(-10, 10, 20, -20)"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := decodeGeometry(t, out)
	if g["type"] != "Polygon" {
		t.Errorf("type = %v", g["type"])
	}
}

func TestConvertGeometry_NativeShape(t *testing.T) {
	out, err := ConvertGeometry(json.RawMessage(`{"type":"Point","coordinates":[5,6]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decodeGeometry(t, out)["type"] != "Point" {
		t.Errorf("geometry = %s", out)
	}
}

func TestConvertGeometry_Empty(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`[]`)} {
		out, err := ConvertGeometry(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if out != nil {
			t.Errorf("expected nil geometry for %q, got %s", raw, out)
		}
	}
}

func TestNewFeature_MalformedGeometry(t *testing.T) {
	f := NewFeature("rec-1", json.RawMessage(`["NOT A SHAPE"]`), "grp-1")
	if f.Geometry != nil {
		t.Errorf("expected no geometry, got %s", f.Geometry)
	}
	if f.ID != "rec-1" || f.Properties.GroupID != "grp-1" {
		t.Errorf("feature = %+v", f)
	}
}

func TestNewFeature_RoundTrip(t *testing.T) {
	f := NewFeature("rec-1", json.RawMessage(`["POINT (10 20)"]`), "grp-1")

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "Feature" || decoded["id"] != "rec-1" {
		t.Errorf("feature = %v", decoded)
	}
	props, _ := decoded["properties"].(map[string]any)
	if props["groupId"] != "grp-1" {
		t.Errorf("properties = %v", props)
	}
	geometry, _ := decoded["geometry"].(map[string]any)
	if geometry["type"] != "Point" {
		t.Errorf("geometry = %v", geometry)
	}
}

func TestNewFeatureCollection_NeverNil(t *testing.T) {
	fc := NewFeatureCollection(nil)
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("collection = %s", data)
	}
}

func TestUnionEnvelope(t *testing.T) {
	bbox := UnionEnvelope([]json.RawMessage{
		json.RawMessage(`{"type":"Point","coordinates":[10,20]}`),
		json.RawMessage(`{"type":"Point","coordinates":[-5,40]}`),
	})
	want := []float64{-5, 20, 10, 40}
	if !reflect.DeepEqual(bbox, want) {
		t.Errorf("bbox = %v, want %v", bbox, want)
	}
}

func TestUnionEnvelope_SkipsUndecodable(t *testing.T) {
	bbox := UnionEnvelope([]json.RawMessage{
		json.RawMessage(`null`),
		json.RawMessage(`{"bogus":true}`),
		json.RawMessage(`{"type":"Point","coordinates":[1,2]}`),
	})
	want := []float64{1, 2, 1, 2}
	if !reflect.DeepEqual(bbox, want) {
		t.Errorf("bbox = %v, want %v", bbox, want)
	}
}

func TestUnionEnvelope_Empty(t *testing.T) {
	if bbox := UnionEnvelope(nil); bbox != nil {
		t.Errorf("bbox = %v, want nil", bbox)
	}
}

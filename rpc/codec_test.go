package rpc

import "testing"

func TestJSONCodecMarshalUnmarshalRoundTrip(t *testing.T) {
	c := jsonCodec{}
	want := SetPositionRequest{HWAddr: "02:00:00:00:00:01", X: 1.5, Y: -2.5}

	b, err := c.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got SetPositionRequest
	if err := c.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestJSONCodecName(t *testing.T) {
	if (jsonCodec{}).Name() != codecName {
		t.Fatalf("Name() = %q, want %q", (jsonCodec{}).Name(), codecName)
	}
	if CodecName() != codecName {
		t.Fatalf("CodecName() = %q, want %q", CodecName(), codecName)
	}
}

func TestJSONCodecUnmarshalRejectsInvalidJSON(t *testing.T) {
	c := jsonCodec{}
	var got SetPositionRequest
	if err := c.Unmarshal([]byte("{not json"), &got); err == nil {
		t.Fatal("expected an error unmarshaling invalid JSON")
	}
}

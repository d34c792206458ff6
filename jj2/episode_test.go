package jj2

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func TestReadEpisode(t *testing.T) {
	src := &Episode{
		Position:    2,
		DisplayName: "#Shareware@Levels",
		FirstLevel:  "Share1.j2l",
		Registered:  false,
		TitleWidth:  640,
		TitleHeight: 480,
	}
	var buf bytes.Buffer
	if err := src.MarshalLegacy(&buf); err != nil {
		t.Fatalf("MarshalLegacy: %v", err)
	}

	e, err := ReadEpisode(bytes.NewReader(buf.Bytes()), "share")
	if err != nil {
		t.Fatalf("ReadEpisode: %v", err)
	}
	src.Token = "share"
	if *e != *src {
		t.Fatalf("expected %+v, got %+v", src, e)
	}
}

func TestReadEpisodeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Episode{DisplayName: "x"}).MarshalLegacy(&buf); err != nil {
		t.Fatalf("MarshalLegacy: %v", err)
	}
	valid := buf.Bytes()

	tooSmall := append([]byte(nil), valid...)
	tooSmall[0] = 16

	cases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"truncated", valid[:100], ErrTruncatedInput},
		{"missing_title_dims", valid[:episodeHeaderSize+2], ErrTruncatedInput},
		{"header_size", tooSmall, ErrInvalidFormat},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ReadEpisode(bytes.NewReader(c.data), "x"); !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
		})
	}
}

func TestEpisodeConvert(t *testing.T) {
	e := &Episode{Token: "prince", Position: 1, DisplayName: "#Formerly@a Prince", FirstLevel: "Castle1.J2L", Registered: true}

	cases := []struct {
		name      string
		tokens    TokenConversion
		names     NameConversion
		prevNext  PrevNextConversion
		wantFlags uint16
		wantName  string
		wantFirst string
		wantPrev  string
		wantNext  string
	}{
		{
			name:      "no_callbacks",
			wantName:  "#Formerly@a Prince",
			wantFirst: "castle1",
		},
		{
			name:     "callbacks",
			tokens:   func(level string) LevelToken { return LevelToken{Episode: "prince", Level: "01_" + level} },
			names:    func(e *Episode) string { return "Formerly a Prince" },
			prevNext: func(e *Episode) (string, string) { return "", "rescue" },

			wantName:  "Formerly a Prince",
			wantFirst: "01_castle1",
			wantNext:  "rescue",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := e.Convert(&buf, c.tokens, c.names, c.prevNext); err != nil {
				t.Fatalf("Convert: %v", err)
			}

			b := NewBlock(buf.Bytes())
			b.DiscardBytes(8)
			if typ := b.ReadUint8(); typ != FileTypeEpisode {
				t.Fatalf("unexpected file type %d", typ)
			}
			if v := b.ReadUint16(); v != EpisodeFormatVersion {
				t.Fatalf("unexpected version %d", v)
			}
			if f := b.ReadUint16(); f != c.wantFlags {
				t.Fatalf("expected flags %#x, got %#x", c.wantFlags, f)
			}
			str8 := func() string { return string(b.ReadRaw(int(b.ReadUint8()))) }
			if got := str8(); got != c.wantName {
				t.Fatalf("expected name %q, got %q", c.wantName, got)
			}
			if pos := b.ReadUint16(); pos != 1 {
				t.Fatalf("expected position 1, got %d", pos)
			}
			if got := str8(); got != c.wantFirst {
				t.Fatalf("expected first level %q, got %q", c.wantFirst, got)
			}
			if prev, next := str8(), str8(); prev != c.wantPrev || next != c.wantNext {
				t.Fatalf("expected prev/next %q/%q, got %q/%q", c.wantPrev, c.wantNext, prev, next)
			}
			if b.Err() != nil || b.Remaining() != 0 {
				t.Fatalf("unexpected trailing state err=%v remaining=%d", b.Err(), b.Remaining())
			}
		})
	}
}

func TestEpisodeConvertUnregistered(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Episode{}).Convert(&buf, nil, nil, nil); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	b := NewBlock(buf.Bytes())
	b.DiscardBytes(11)
	if f := b.ReadUint16(); f != EpisodeUnregistered {
		t.Fatalf("expected unregistered flag, got %#x", f)
	}
}

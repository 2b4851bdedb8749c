package nef

import (
	"testing"

	"github.com/r3e-network/neo-decompiler/pkg/callflag"
	"github.com/r3e-network/neo-decompiler/pkg/util"
	"github.com/stretchr/testify/require"
)

func sampleFile() *File {
	return &File{
		Compiler: "the best compiler ever",
		Source:   "https://example.com/contract",
		Script:   []byte{12, 32, 84, 35, 14},
	}
}

func TestFileBytesRoundTrip(t *testing.T) {
	expected := sampleFile()

	raw, err := expected.Bytes()
	require.NoError(t, err)

	actual, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, expected.Compiler, actual.Compiler)
	require.Equal(t, expected.Source, actual.Source)
	require.Equal(t, expected.Script, actual.Script)
}

func TestParseInvalidMagic(t *testing.T) {
	f := sampleFile()
	raw, err := f.Bytes()
	require.NoError(t, err)
	raw[0] ^= 0xff

	_, err = Parse(raw)
	require.Error(t, err)
}

func TestParseChecksumMismatch(t *testing.T) {
	f := sampleFile()
	raw, err := f.Bytes()
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = Parse(raw)
	require.Error(t, err)
	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestParseEmptyScript(t *testing.T) {
	f := sampleFile()
	f.Script = nil
	raw, err := f.Bytes()
	require.NoError(t, err)

	_, err = Parse(raw)
	require.Error(t, err)
}

func TestParseScriptTooLarge(t *testing.T) {
	f := sampleFile()
	f.Script = make([]byte, MaxScriptLength+1)
	raw, err := f.Bytes() // Bytes doesn't enforce the limit, Parse does
	require.NoError(t, err)

	_, err = Parse(raw)
	require.Error(t, err)
}

func TestScriptHashIsHash160(t *testing.T) {
	f := sampleFile()
	h := f.ScriptHash()
	require.False(t, h.IsZero())
	require.Len(t, h.BytesBE(), util.Uint160Size)
}

func TestMethodTokenRoundTrip(t *testing.T) {
	f := sampleFile()
	f.Tokens = []MethodToken{
		{
			Hash:       util.Uint160{1, 2, 3},
			Method:     "transfer",
			ParamCount: 4,
			HasReturn:  true,
			CallFlag:   callflag.All,
		},
	}
	raw, err := f.Bytes()
	require.NoError(t, err)

	actual, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, actual.Tokens, 1)
	require.Equal(t, f.Tokens[0].Method, actual.Tokens[0].Method)
	require.Equal(t, f.Tokens[0].CallFlag, actual.Tokens[0].CallFlag)
}

func TestMethodTokenRejectsReservedName(t *testing.T) {
	f := sampleFile()
	f.Tokens = []MethodToken{
		{Method: "_initialize", CallFlag: callflag.All},
	}
	raw, err := f.Bytes()
	require.NoError(t, err)

	_, err = Parse(raw)
	require.Error(t, err)
}

func TestMethodTokenRejectsInvalidCallFlag(t *testing.T) {
	f := sampleFile()
	f.Tokens = []MethodToken{
		{Method: "transfer", CallFlag: 0xF0},
	}
	raw, err := f.Bytes()
	require.NoError(t, err)

	_, err = Parse(raw)
	require.Error(t, err)
}

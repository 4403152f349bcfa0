package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// contentBackend decodes PDF content streams itself. It recovers text
// from documents whose fonts defeat the plain-text reader, including
// Windows-1254 and UTF-16BE encoded Turkish strings.
type contentBackend struct{}

func (*contentBackend) Name() string { return "content-stream" }

func (*contentBackend) Extract(_ context.Context, path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", 0, fmt.Errorf("read pdf: %w", err)
	}

	var buf strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		contentReader, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || contentReader == nil {
			continue
		}
		contentBytes, err := io.ReadAll(contentReader)
		if err != nil {
			continue
		}
		if pageNr > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(streamText(string(contentBytes)))
	}
	return buf.String(), pdfCtx.PageCount, nil
}

// streamText pulls the text-showing operands out of a content stream:
// literal strings in parentheses and hex strings in angle brackets.
func streamText(content string) string {
	var result strings.Builder

	for _, s := range literalStrings(content) {
		result.WriteString(decodeLiteralString(s))
		result.WriteString("\n")
	}

	i := 0
	for i < len(content) {
		if content[i] != '<' || (i+1 < len(content) && content[i+1] == '<') {
			i++
			continue
		}
		end := strings.IndexByte(content[i+1:], '>')
		if end < 0 {
			break
		}
		hex := content[i+1 : i+1+end]
		if isHex(hex) {
			if text := decodeHexString(hex); text != "" {
				result.WriteString(text)
				result.WriteString("\n")
			}
		}
		i += end + 2
	}

	return result.String()
}

// literalStrings extracts parenthesized strings, handling escapes and
// nested parens.
func literalStrings(content string) []string {
	var results []string
	i := 0
	for i < len(content) {
		if content[i] == '(' {
			str, endIdx := literalString(content, i)
			if endIdx > i {
				results = append(results, str)
				i = endIdx
				continue
			}
		}
		i++
	}
	return results
}

func literalString(content string, start int) (string, int) {
	var result strings.Builder
	depth := 0
	i := start

	for i < len(content) {
		ch := content[i]
		if ch == '\\' && i+1 < len(content) {
			result.WriteByte(ch)
			result.WriteByte(content[i+1])
			i += 2
			continue
		}
		switch ch {
		case '(':
			depth++
			if depth > 1 {
				result.WriteByte(ch)
			}
		case ')':
			depth--
			if depth == 0 {
				return result.String(), i + 1
			}
			result.WriteByte(ch)
		default:
			if depth > 0 {
				result.WriteByte(ch)
			}
		}
		i++
	}
	return result.String(), i
}

// decodeLiteralString resolves PDF escape sequences, then repairs the
// byte encoding when the result is not valid UTF-8.
func decodeLiteralString(s string) string {
	var result strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteRune('\n')
			case 'r':
				result.WriteRune('\r')
			case 't':
				result.WriteRune('\t')
			case 'b':
				result.WriteRune('\b')
			case 'f':
				result.WriteRune('\f')
			case '(', ')', '\\':
				result.WriteByte(s[i+1])
			default:
				if s[i+1] >= '0' && s[i+1] <= '7' {
					octal := string(s[i+1])
					j := i + 2
					for k := 0; k < 2 && j < len(s) && s[j] >= '0' && s[j] <= '7'; k++ {
						octal += string(s[j])
						j++
					}
					if val, err := strconv.ParseInt(octal, 8, 32); err == nil {
						result.WriteRune(rune(val))
					}
					i = j
					continue
				}
				result.WriteByte(s[i+1])
			}
			i += 2
			continue
		}
		result.WriteByte(s[i])
		i++
	}

	decoded := result.String()
	if strings.ContainsRune(decoded, '�') || containsHighBytes(decoded) {
		if converted, err := charmap.Windows1254.NewDecoder().String(decoded); err == nil {
			return converted
		}
	}
	return decoded
}

func containsHighBytes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return true
		}
	}
	return false
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// decodeHexString handles both UTF-16BE (with or without BOM) and
// single-byte Windows-1254 hex strings.
func decodeHexString(hex string) string {
	if len(hex)%2 != 0 {
		hex += "0"
	}

	byteData := make([]byte, len(hex)/2)
	for i := 0; i+1 < len(hex); i += 2 {
		val, err := strconv.ParseInt(hex[i:i+2], 16, 32)
		if err != nil {
			continue
		}
		byteData[i/2] = byte(val)
	}

	if len(byteData) >= 2 && byteData[0] == 0xFE && byteData[1] == 0xFF {
		return decodeUTF16BE(byteData[2:])
	}
	if len(byteData) >= 4 && isLikelyUTF16BE(byteData) {
		return decodeUTF16BE(byteData)
	}

	var result strings.Builder
	for _, b := range byteData {
		if b >= 32 {
			result.WriteByte(b)
		}
	}
	decoded := result.String()
	if containsHighBytes(decoded) {
		if converted, err := charmap.Windows1254.NewDecoder().String(decoded); err == nil {
			return converted
		}
	}
	return decoded
}

// isLikelyUTF16BE: mostly-zero high bytes mean ASCII-range UTF-16BE.
func isLikelyUTF16BE(data []byte) bool {
	if len(data) < 4 || len(data)%2 != 0 {
		return false
	}
	zeroCount := 0
	for i := 0; i < len(data); i += 2 {
		if data[i] == 0 {
			zeroCount++
		}
	}
	return zeroCount > len(data)/4
}

func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	u16 := make([]uint16, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		u16[i/2] = uint16(data[i])<<8 | uint16(data[i+1])
	}
	runes := utf16.Decode(u16)

	var result strings.Builder
	for _, r := range runes {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

package keymap

// HID usage codes (keyboard/keypad page) for the keys the layout carries.
const (
	HIDA = 0x04 // a..z follow contiguously up to 0x1D
	HID1 = 0x1E // 1..9 follow contiguously up to 0x26
	HID0 = 0x27

	HIDEnter      = 0x28
	HIDBackspace  = 0x2A
	HIDTab        = 0x2B
	HIDSpace      = 0x2C
	HIDMinus      = 0x2D
	HIDEqual      = 0x2E
	HIDLeftBrace  = 0x2F
	HIDRightBrace = 0x30
	HIDBackslash  = 0x31
	HIDSemicolon  = 0x33
	HIDApostrophe = 0x34
	HIDGrave      = 0x35
	HIDComma      = 0x36
	HIDPeriod     = 0x37
	HIDSlash      = 0x38
)

// HIDShift is or'ed into an ASCII map entry whose character needs shift.
const HIDShift = 0x80

// asciiHID is the Arduino-compatible ASCII to HID table.
var asciiHID = [128]byte{
	'\b': HIDBackspace,
	'\t': HIDTab,
	'\n': HIDEnter,

	' ':  HIDSpace,
	'!':  HID1 | HIDShift,
	'"':  HIDApostrophe | HIDShift,
	'#':  HID1 + 2 | HIDShift,
	'$':  HID1 + 3 | HIDShift,
	'%':  HID1 + 4 | HIDShift,
	'&':  HID1 + 6 | HIDShift,
	'\'': HIDApostrophe,
	'(':  HID1 + 8 | HIDShift,
	')':  HID0 | HIDShift,
	'*':  HID1 + 7 | HIDShift,
	'+':  HIDEqual | HIDShift,
	',':  HIDComma,
	'-':  HIDMinus,
	'.':  HIDPeriod,
	'/':  HIDSlash,
	'0':  HID0,
	'1':  HID1,
	'2':  HID1 + 1,
	'3':  HID1 + 2,
	'4':  HID1 + 3,
	'5':  HID1 + 4,
	'6':  HID1 + 5,
	'7':  HID1 + 6,
	'8':  HID1 + 7,
	'9':  HID1 + 8,
	':':  HIDSemicolon | HIDShift,
	';':  HIDSemicolon,
	'<':  HIDComma | HIDShift,
	'=':  HIDEqual,
	'>':  HIDPeriod | HIDShift,
	'?':  HIDSlash | HIDShift,
	'@':  HID1 + 1 | HIDShift,
	'[':  HIDLeftBrace,
	'\\': HIDBackslash,
	']':  HIDRightBrace,
	'^':  HID1 + 5 | HIDShift,
	'_':  HIDMinus | HIDShift,
	'`':  HIDGrave,
	'{':  HIDLeftBrace | HIDShift,
	'|':  HIDBackslash | HIDShift,
	'}':  HIDRightBrace | HIDShift,
	'~':  HIDGrave | HIDShift,
}

func init() {
	for c := byte(0); c < 26; c++ {
		asciiHID['a'+c] = HIDA + c
		asciiHID['A'+c] = (HIDA + c) | HIDShift
	}
}

// ASCIIToHID translates a character to its HID usage code, HIDShift set
// when the character is typed with shift. Zero means unmapped.
func ASCIIToHID(c byte) byte {
	if c >= byte(len(asciiHID)) {
		return 0
	}
	return asciiHID[c]
}

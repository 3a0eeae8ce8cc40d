package htmlx

// CardType is the closed set of card-layout variants a detail page can
// resolve to (C4). Unknown means the variant text didn't match any
// known row; callers discard these silently (DESIGN.md Open Question 1).
type CardType int

const (
	Unknown CardType = iota
	Lrig
	LrigAssist
	Arts
	ArtsCraft
	Key
	Signi
	SigniCraft
	Spell
	SpellCraft
	Resona
	ResonaCraft
	Piece
	PieceCraft
	PieceRelay
	Token
)

func (c CardType) String() string {
	switch c {
	case Lrig:
		return "ルリグ"
	case LrigAssist:
		return "アシストルリグ"
	case Arts:
		return "アーツ"
	case ArtsCraft:
		return "アーツクラフト"
	case Key:
		return "キー"
	case Signi:
		return "シグニ"
	case SigniCraft:
		return "シグニクラフト"
	case Spell:
		return "スペル"
	case SpellCraft:
		return "スペルクラフト"
	case Resona:
		return "レゾナ"
	case ResonaCraft:
		return "レゾナクラフト"
	case Piece:
		return "ピース"
	case PieceCraft:
		return "ピースクラフト"
	case PieceRelay:
		return "ピースリレー"
	case Token:
		return "トークン"
	default:
		return "unknown"
	}
}

// resolveCardType maps the raw .cardData dd[0] text, already canonicalized
// to a bare "<br>" break marker by canonicalBreaks, to a CardType. The
// source's own detect_card_type has no case producing SigniCraft or
// PieceCraft: "シグニ<br>\nクラフト" maps unconditionally to ResonaCraft,
// and "ピース" maps unconditionally to Piece, so those two variants never
// occur in practice (DESIGN.md Open Question 4).
func resolveCardType(text string) CardType {
	switch text {
	case "ルリグ":
		return Lrig
	case "アシストルリグ":
		return LrigAssist
	case "アーツ":
		return Arts
	case "キー":
		return Key
	case "シグニ":
		return Signi
	case "スペル":
		return Spell
	case "レゾナ":
		return Resona
	case "アーツ<br>\nクラフト":
		return ArtsCraft
	case "シグニ<br>\nクラフト":
		return ResonaCraft
	case "スペル<br>\nクラフト":
		return SpellCraft
	case "ピース":
		return Piece
	case "ピース<br>\nリレー":
		return PieceRelay
	case "コイン", "トークン":
		return Token
	default:
		return Unknown
	}
}

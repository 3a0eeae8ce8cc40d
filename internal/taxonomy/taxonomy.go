// Package taxonomy defines the closed enum of card features (C1).
//
// Every feature is bound to a (tag, bit-position-pair, label) triple.
// Exactly one of the two shifts is non-zero, so a feature's bit lands in
// FeatureBits1 or FeatureBits2 but never both. The table is append-only:
// once a shift is assigned to a feature it must never be reused.
package taxonomy

import "sort"

// Tag groups features for UI display. The two-digit numeric prefix on
// the label bakes in display order.
type Tag int

const (
	Lethal Tag = iota
	Offensive
	Disturb
	Endure
	Enhance
	Unique
	Others
)

func (t Tag) String() string {
	switch t {
	case Lethal:
		return "01リーサル"
	case Offensive:
		return "02攻撃系"
	case Disturb:
		return "04妨害系"
	case Endure:
		return "03防御系"
	case Enhance:
		return "05資源系"
	case Unique:
		return "06固有系"
	case Others:
		return "07その他"
	default:
		return "unknown"
	}
}

// Feature is one member of the closed taxonomy.
type Feature int

// FeatureBits is a pair of 64-bit words; feature bits are OR'd into
// whichever word their shift belongs to.
type FeatureBits struct {
	Word1 uint64
	Word2 uint64
}

type entry struct {
	tag          Tag
	shift1       int
	shift2       int
	label        string
	isLifeBurst  bool
}

const (
	DoubleCrush Feature = iota
	DiscardOpponent
	RandomDiscard
	Draw
	Assassin
	Freeze
	Drop
	OnDrop
	OnRefresh
	Lancer
	SLancer
	RemoveSigni
	NonAttackable
	Down
	Up
	Charge
	EnerAttack
	Trash
	EnerOffensive
	PowerUp
	PowerDown
	Bounce
	DeckBounce
	Salvage
	LifeBurst
	Shadow
	Invulnerable
	OnSpell
	OnArts
	OnBanish
	Banish
	Guard
	OnGuard
	AttackNoEffect
	OnTouch
	Awake
	Exceed
	OnExceed
	AddLife
	OnBurst
	LifeTrash
	LifeCrush
	Damage
	OnLifeCrush
	Position
	Vanilla
	TopSet
	BottomCheck
	Barrier
	LrigTrash
	Charm
	Craft
	Acce
	Rise
	Recollect
	SeekTop
	EraseSkill
	CancelDamage
	Reanimate
	AdditionalAttack
	UnGuardable
	SalvageSpell
	BanishOnAttack
	ShootLike
	LimitSigni
	FreeSpell
	DualColorEner
	GainCoin
	BetCoin
	HandCost
	RligDownCost
	Inherit
	PreventGrowCost
	PutSigniDefense
	PutSigniOffense
	Harmony
	MagicBox
	Virus
	FreeArts

	featureCount
)

// table is the single source of truth: tag, bit shifts, label. Ported
// value-for-value from the taxonomy's Rust source so bit positions
// stay stable across regenerations of the static index.
var table = map[Feature]entry{
	DoubleCrush:      {Offensive, 1, 0, "ダブルクラッシュ", false},
	DiscardOpponent:  {Disturb, 3, 0, "ハンデス", false},
	RandomDiscard:    {Disturb, 4, 0, "ハンデス(強)", false},
	Draw:             {Enhance, 5, 0, "ドロー", false},
	Assassin:         {Lethal, 6, 0, "アサシン", false},
	Freeze:           {Disturb, 7, 0, "凍結", false},
	Drop:             {Offensive, 8, 0, "デッキ落下", false},
	OnDrop:           {Offensive, 9, 0, "デッキ落下時", false},
	OnRefresh:        {Offensive, 10, 0, "リフレッシュ時", false},
	Lancer:           {Offensive, 11, 0, "ランサー", false},
	SLancer:          {Lethal, 12, 0, "Sランサー", false},
	RemoveSigni:      {Offensive, 13, 0, "シグニ除外", false},
	NonAttackable:    {Endure, 14, 0, "アタック不可", false},
	Down:             {Endure, 15, 0, "ダウン", false},
	Up:               {Offensive, 16, 0, "シグニアップ", false},
	Charge:           {Enhance, 17, 0, "エナチャージ", false},
	EnerAttack:       {Disturb, 18, 0, "エナ破壊", false},
	Trash:            {Offensive, 19, 0, "トラッシュ送り", false},
	EnerOffensive:    {Offensive, 20, 0, "エナ送り", false},
	PowerUp:          {Endure, 21, 0, "パワーアップ", false},
	PowerDown:        {Offensive, 22, 0, "パワーダウン", false},
	Bounce:           {Offensive, 23, 0, "バウンス", false},
	DeckBounce:       {Offensive, 24, 0, "デッキバウンス", false},
	Salvage:          {Enhance, 25, 0, "トラッシュ回収", false},
	LifeBurst:        {Endure, 26, 0, "ライフバースト", true},
	Shadow:           {Endure, 27, 0, "シャドウ", false},
	Invulnerable:     {Endure, 28, 0, "バニッシュ耐性", false},
	OnSpell:          {Others, 29, 0, "スペル参照", false},
	OnArts:           {Others, 31, 0, "アーツ・ピース参照", false},
	OnBanish:         {Endure, 32, 0, "被バニッシュ時", false},
	Banish:           {Offensive, 33, 0, "バニッシュ", false},
	Guard:            {Endure, 34, 0, "ガード", false},
	OnGuard:          {Enhance, 35, 0, "ガード時", false},
	AttackNoEffect:   {Endure, 36, 0, "アタック無効", false},
	OnTouch:          {Others, 37, 0, "被対象時", false},
	Awake:            {Others, 38, 0, "覚醒", false},
	Exceed:           {Enhance, 39, 0, "エクシード", false},
	OnExceed:         {Others, 40, 0, "エクシード時", false},
	AddLife:          {Endure, 41, 0, "ライフクロス追加", false},
	OnBurst:          {Others, 42, 0, "バースト参照", false},
	LifeTrash:        {Offensive, 43, 0, "ライフトラッシュ", false},
	LifeCrush:        {Offensive, 44, 0, "ライフクラッシュ", false},
	Damage:           {Lethal, 45, 0, "ダメージ", false},
	OnLifeCrush:      {Others, 46, 0, "クラッシュ時", false},
	Position:         {Disturb, 47, 0, "シグニゾーン移動", false},
	Vanilla:          {Endure, 48, 0, "バニラ", false},
	TopSet:           {Enhance, 50, 0, "トップ操作", false},
	BottomCheck:      {Enhance, 51, 0, "ボトム操作", false},
	Barrier:          {Endure, 52, 0, "バリア", false},
	LrigTrash:        {Enhance, 54, 0, "ルリグトラッシュ参照", false},
	Charm:            {Unique, 55, 0, "チャーム", false},
	Craft:            {Unique, 56, 0, "クラフト", false},
	Acce:             {Unique, 57, 0, "アクセ", false},
	Rise:             {Unique, 58, 0, "ライズ", false},
	Recollect:        {Enhance, 59, 0, "リコレクト", false},
	SeekTop:          {Enhance, 60, 0, "シーク", false},
	EraseSkill:       {Others, 61, 0, "能力消去", false},
	CancelDamage:     {Endure, 0, 1, "ダメージ無効", false},
	Reanimate:        {Endure, 0, 2, "トラッシュ場出し", false},
	AdditionalAttack: {Lethal, 0, 3, "追加アタック", false},
	UnGuardable:      {Lethal, 0, 4, "ガード不可", false},
	SalvageSpell:     {Enhance, 0, 5, "スペル回収", false},
	BanishOnAttack:   {Lethal, 0, 6, "アタック時バニッシュ", false},
	ShootLike:        {Disturb, 0, 7, "バニッシュ代替", false},
	LimitSigni:       {Lethal, 0, 8, "シグニゾーン制限", false},
	FreeSpell:        {Enhance, 0, 9, "スペルコスト軽減", false},
	DualColorEner:    {Enhance, 0, 10, "複数色エナ", false},
	GainCoin:         {Unique, 0, 11, "コイン獲得", false},
	BetCoin:          {Others, 0, 12, "ベット/コイン使用", false},
	HandCost:         {Enhance, 0, 13, "手札コスト", false},
	RligDownCost:     {Enhance, 0, 14, "ルリグダウンコスト", false},
	Inherit:          {Others, 0, 15, "Lv3継承", false},
	PreventGrowCost:  {Enhance, 0, 16, "グロウコスト軽減", false},
	PutSigniDefense:  {Endure, 0, 17, "ブロッカー場出し", false},
	PutSigniOffense:  {Offensive, 0, 18, "アタッカー場出し", false},
	Harmony:          {Unique, 0, 19, "ハーモニー", false},
	MagicBox:         {Unique, 0, 20, "マジックボックス", false},
	Virus:            {Unique, 0, 21, "ウィルス", false},
	FreeArts:         {Enhance, 0, 22, "アーツコスト軽減", false},
}

// All returns every feature in declaration order.
func All() []Feature {
	out := make([]Feature, 0, int(featureCount))
	for f := Feature(0); f < featureCount; f++ {
		if _, ok := table[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Tag returns the feature's display grouping.
func (f Feature) Tag() Tag {
	return table[f].tag
}

// Label returns the feature's human-readable name.
func (f Feature) Label() string {
	return table[f].label
}

// IsLifeBurst reports whether this feature marks life-burst text (§4.5).
func (f Feature) IsLifeBurst() bool {
	return table[f].isLifeBurst
}

// Bits returns the (word1, word2) bit pair for f; exactly one word is non-zero.
// A zero shift means that word carries no bit for this feature (shift
// position 0 is never assigned to a real feature).
func Bits(f Feature) FeatureBits {
	e := table[f]
	var b FeatureBits
	if e.shift1 != 0 {
		b.Word1 = uint64(1) << uint(e.shift1)
	}
	if e.shift2 != 0 {
		b.Word2 = uint64(1) << uint(e.shift2)
	}
	return b
}

// FromLabel resolves a feature by its exact display label, used for
// override/filter input parsing. Unknown labels return (0, false).
func FromLabel(s string) (Feature, bool) {
	for f, e := range table {
		if e.label == s {
			return f, true
		}
	}
	return 0, false
}

// FromBits returns every feature whose bit is set in the given words,
// sorted by declaration order for deterministic output.
func FromBits(w1, w2 uint64) []Feature {
	var out []Feature
	for _, f := range All() {
		b := Bits(f)
		if (b.Word1 != 0 && w1&b.Word1 != 0) || (b.Word2 != 0 && w2&b.Word2 != 0) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LabelsByTag groups every feature under its tag. The map itself has
// no order; display order is encoded by the tag's numeric-prefixed
// String().
func LabelsByTag() map[Tag][]Feature {
	out := make(map[Tag][]Feature)
	for _, f := range All() {
		t := f.Tag()
		out[t] = append(out[t], f)
	}
	return out
}

// FeatureSet is a set of features, used by the rule engine to accumulate
// detections before encoding to bits.
type FeatureSet map[Feature]struct{}

// NewFeatureSet builds a set from zero or more features.
func NewFeatureSet(fs ...Feature) FeatureSet {
	s := make(FeatureSet, len(fs))
	for _, f := range fs {
		s[f] = struct{}{}
	}
	return s
}

// Union merges other into s in place and returns s.
func (s FeatureSet) Union(other FeatureSet) FeatureSet {
	for f := range other {
		s[f] = struct{}{}
	}
	return s
}

// ToBits encodes the set into its two-word bit representation.
func (s FeatureSet) ToBits() FeatureBits {
	var out FeatureBits
	for f := range s {
		b := Bits(f)
		out.Word1 |= b.Word1
		out.Word2 |= b.Word2
	}
	return out
}

// Has reports whether f is in the set.
func (s FeatureSet) Has(f Feature) bool {
	_, ok := s[f]
	return ok
}

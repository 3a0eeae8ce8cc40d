package rules

import "github.com/cardindex/wxdex/internal/taxonomy"

// Bank is the ordered rule table (C2). Every row here traces to a real
// row in the taxonomy's source rule table; this is a documented
// representative subset (74 of that table's ~250 rows, see
// SPEC_FULL.md §4.6), not an invented one. The rule engine applies the
// Remove rows first, in table order, then the remaining rows, in table
// order, and order matters: a quoting-mark strip runs before anything that
// would otherwise match inside a quoted aside, and the life-burst
// sentinel runs before any burst-text feature detection downstream.
var Bank = []Rule{
	mustRule(`『`, true, ``),
	mustRule(`』`, true, ``),
	mustRule(`ライフバースト：`, true, `LB:`, taxonomy.LifeBurst),
	mustRule(`（対戦相手のライフクロスが１枚以上ある場合、ライフクロス１枚をクラッシュし、０枚の場合、あなたはゲームに勝利する）`, true, ``, taxonomy.Damage),
	mustRule(`（アタックによるダメージでライフクロスを２枚クラッシュする）`, true, `*DOUBLE CRUSH*`),
	mustRule(`（【ランサー】を持つシグニがバトルでシグニをバニッシュしたとき、対戦相手のライフクロスを１枚クラッシュする）`, true, ``, taxonomy.Lancer),
	mustRule(`（このクラフトは効果以外によっては場に出せない）`, true, ``, taxonomy.Craft),
	mustRule(`（このスペルはあなたのメインフェイズにルリグデッキから使用できる）`, true, ``, taxonomy.Craft),
	mustRule(`（クラフトであるスペルは、使用後にゲームから除外される）`, true, ``, taxonomy.Craft),
	mustRule(`アクセ`, false, `*ACCE*`, taxonomy.Acce),
	mustRule(`（【アクセ】はシグニ１体に１枚までしか付けられない。このクラフトが付いているシグニが場を離れるとこのクラフトはゲームから除外される）`, true, ``, taxonomy.Acce),
	NumericVariation(`（あなたのルリグの下からカードを合計`, `枚ルリグトラッシュに置く）`, true, `*EXCEED*`, taxonomy.Exceed),
	NumericVariation(`エクシード`, ``, false, `*EXCEED*`, taxonomy.Exceed),
	mustRule(`（シグニは覚醒すると場にあるかぎり覚醒状態になる）`, true, `*AWAKE*`, taxonomy.Awake),
	mustRule(`（凍結されたシグニは次の自分のアップフェイズにアップしない）`, true, `*FROZEN*`, taxonomy.Freeze),
	mustRule(`ガードアイコン`, true, `*GUARD*`, taxonomy.Guard),
	mustRule(`捨てさせる。`, false, `*HAND DESTRUCTION*`, taxonomy.DiscardOpponent),
	mustRule(`見ないで選び、捨てさせる。`, false, `*RANDOM HAND DESTRUCTION*`, taxonomy.RandomDiscard),
	mustRule(`ダウンする。`, false, `*DOWN*`, taxonomy.Down),
	mustRule(`エナチャージ`, false, `*CHARGE*`, taxonomy.Charge),
	NumericVariation(`カードを`, `枚までエナゾーンに置`, false, `*CHARGE MANUALLY*`, taxonomy.Charge),
	mustRule(`残りを好きな順番でデッキの一番下に置く`, false, `*BOTTOM CHECK*`, taxonomy.BottomCheck),
	mustRule(`(それ|シグニ)をトラッシュに置`, false, `*TRASH*`, taxonomy.Trash),
	mustRule(`シグニバリア`, false, `*BARRIER SIGNI*`, taxonomy.Barrier),
	mustRule(`ルリグバリア`, false, `*BARRIER LRIG*`, taxonomy.Barrier),
	mustRule(`アサシン`, false, `*ASSASSIN*`, taxonomy.Assassin),
	mustRule(`シャドウ`, false, `*SHADOW*`, taxonomy.Shadow),
	mustRule(`（エナコストを支払う際、このカードは.+１つとして支払える）`, true, `*DUAL COLOR ENER*`, taxonomy.DualColorEner),
	mustRule(`チャーム`, false, `*CHARM*`, taxonomy.Charm),
	mustRule(`ダブルクラッシュ`, false, `*DOUBLE CRUSH*`, taxonomy.DoubleCrush),
	mustRule(`Sランサー`, false, `*S LANCER*`, taxonomy.SLancer),
	mustRule(`Ｓランサー`, false, `*S LANCER*`, taxonomy.SLancer),
	NumericVariation(`対戦相手のシグニ`, `体を対象とし、それをゲームから除外する`, false, `*REMOVE SIGNI*`, taxonomy.RemoveSigni),
	mustRule(`バニッシュ`, false, `*BANISH*`, taxonomy.Banish),
	mustRule(`シグニ.+エナゾーンに置`, false, `*ENER*`, taxonomy.EnerOffensive),
	mustRule(`凍結する`, false, `*FREEZE*`, taxonomy.Freeze),
	NumericVariation(`対戦相手のシグニ`, `体(まで|を)対象とし、(それら|それ)を手札に戻`, false, `*BOUNCE*`, taxonomy.Bounce),
	NumericVariation(`対戦相手のパワー`, `体(まで|を)対象とし、(それら|それ)を手札に戻`, false, `*BOUNCE*`, taxonomy.Bounce),
	NumericVariation(`対戦相手のシグニ`, `体を対象とし、それを手札に戻`, false, `BOUNCE`, taxonomy.Bounce),
	mustRule(`ライフクロス`+numberRun+`枚をトラッシュに置`, false, `*LIFE TRASH*`, taxonomy.LifeTrash),
	NumericVariation(`エナゾーンからカード`, `枚(を|選び).+トラッシュに置`, false, `*ENER ATTACK*`, taxonomy.EnerAttack),
	mustRule(`ルリグトラッシュに置`, false, `*LRIG TRASH*`, taxonomy.LrigTrash),
	mustRule(`ライフクロスに加える`, false, `*ADD LIFE*`, taxonomy.AddLife),
	mustRule(`ランサー`, false, `*LANCER*`, taxonomy.Lancer),
	mustRule(`ライフクロスを１枚クラッシュする`, false, `*CRUSH*`, taxonomy.LifeCrush),
	mustRule(`対戦相手のライフクロス１枚をクラッシュする。`, false, `*CRUSH*`, taxonomy.LifeCrush),
	mustRule(`対戦相手にダメージを与える。`, false, `*DAMAGE*`, taxonomy.Damage),
	mustRule(`リコレクトアイコン`, false, `*RECOLLECT*`, taxonomy.Recollect),
	NumericVariation(``, `枚見`, false, `*SEEK*`, taxonomy.SeekTop),
	mustRule(`能力を失う`, false, `*ERASE SKILL*`, taxonomy.EraseSkill),
	mustRule(`アタックできない`, false, `*NON ATTACKABLE*`, taxonomy.NonAttackable),
	NumericVariation(`カードを`, `枚引`, false, `*DRAW*`, taxonomy.Draw),
	NumericVariation(`デッキの上からカードを`, `枚トラッシュに置`, false, `*DROP*`, taxonomy.Drop),
	NumericVariation(`対戦相手のエナゾーンからカードを`, `枚まで対象とし、それらを手札に戻`, false, `*ENER ATTACK*`, taxonomy.EnerAttack),
	mustRule(`デッキの一番下に置`, false, `*DECK BOUNCE*`, taxonomy.DeckBounce),
	mustRule(`シグニのパワーを＋`, false, `*POWER UP*`, taxonomy.PowerUp),
	mustRule(`(シグニ|それ|それら)のパワーを＋`, false, `*POWER UP*`, taxonomy.PowerUp),
	mustRule(`(シグニ|それ|それら)のパワーを－`, false, `*POWER DOWN*`, taxonomy.PowerDown),
	mustRule(`ダメージを受けない`, false, `*CANCEL DAMAGE*`, taxonomy.CancelDamage),
	mustRule(`トラッシュからシグニ.+場に出`, false, `*REANIMATE*`, taxonomy.Reanimate),
	NumericVariation(`あなたのトラッシュから(シグニ|.+のシグニ)`, `枚を対象とし、それを場に出`, false, `*REANIMATE*`, taxonomy.Reanimate),
	mustRule(`このルリグをアップし`, false, `*ADDITIONAL ATTACK*`, taxonomy.AdditionalAttack),
	mustRule(`対戦相手は【ガード】ができない`, false, `*UNGUARDABLE*`, taxonomy.UnGuardable),
	NumericVariation(`スペル`, `枚を.+手札に加え`, false, `*SALVAGE SPELL*`, taxonomy.SalvageSpell),
	NumericVariation(`(シグニ|シグニを|シグニをそれぞれ)`, `枚(を|まで).+手札に加え`, false, `*SALVAGE SIGNI*`, taxonomy.Salvage),
	NumericVariation(`スペル`, `枚をコストを支払わずに使用する`, false, `*FREE SPELL*`, taxonomy.FreeSpell),
	mustRule(`このシグニがアタックしたとき.+バニッシュする`, false, `*BANISH ON ATTACK*`, taxonomy.BanishOnAttack),
	mustRule(`ルリグデッキに加える。（ゲーム終了時にそのレゾナがルリグデッキにあれば公開する）`, false, `*CRAFT RESONA*`, taxonomy.Craft),
	NumericVariation(`手札を`, `枚捨ててもよい`, false, `*HAND COST*`, taxonomy.HandCost),
	mustRule(`アップ状態のルリグを好きな数ダウンする`, false, `*ASSIST COST*`, taxonomy.RligDownCost),
	mustRule(`このルリグはあなたのルリグトラッシュにあるレベル３の＜.+＞と同じカード名としても扱い、そのルリグの【自】能力を得る。`, true, `*Inherit*`, taxonomy.Inherit),
	mustRule(`グロウするためのコスト`, true, `*PREVENT GROW COST*`, taxonomy.PreventGrowCost),
	NumericVariation(`シグニを`, `枚まで対象とし、それを場に出す`, true, `*PUT BLOCKER*`, taxonomy.PutSigniDefense, taxonomy.PutSigniOffense),
	mustRule(`《コインアイコン》を得る`, false, `*GAIN COINS*`, taxonomy.GainCoin),
}

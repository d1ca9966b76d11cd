package discord

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/store"
	"github.com/rs/zerolog"
)

func TestDeliver_UpdateMessage(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(nil))
	api := newFakeAPI()
	i := componentInteraction("u1", "battle_move:u1:0")

	msg, err := bot.deliver(api, i, view{Content: "hello", Image: []byte("png")}, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg == nil || msg.ID != "battle-message" {
		t.Errorf("Expected the clicked message back, got %+v", msg)
	}

	resp := api.lastResponse(t)
	if resp.Type != discordgo.InteractionResponseUpdateMessage {
		t.Errorf("Expected an update message response, got %d", resp.Type)
	}
	if len(resp.Data.Files) != 1 || resp.Data.Files[0].Name != sceneFileName {
		t.Errorf("Expected the scene attached as %s, got %+v", sceneFileName, resp.Data.Files)
	}
	if len(api.edits) != 0 || len(api.followups) != 0 {
		t.Errorf("Expected no fallback calls, got %d edits and %d follow-ups", len(api.edits), len(api.followups))
	}
}

func TestDeliver_FallsBackToEdit(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(nil))
	api := newFakeAPI()
	api.respondErr[discordgo.InteractionResponseUpdateMessage] = errBoom

	msg, err := bot.deliver(api, componentInteraction("u1", "battle_move:u1:0"), view{Image: []byte("png")}, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg.ID != "edited" {
		t.Errorf("Expected the edited message, got %s", msg.ID)
	}
	if len(api.edits) != 1 {
		t.Fatalf("Expected 1 edit, got %d", len(api.edits))
	}
	if len(api.edits[0].Files) != 1 {
		t.Errorf("Expected the scene to be attached again on the edit")
	}
}

func TestDeliver_FallsBackToFollowup(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(nil))
	api := newFakeAPI()
	api.respondErr[discordgo.InteractionResponseUpdateMessage] = errBoom
	api.editErr = errBoom

	msg, err := bot.deliver(api, componentInteraction("u1", "battle_move:u1:0"), view{Content: "scene"}, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg.ID != "followup" {
		t.Errorf("Expected the follow-up message, got %s", msg.ID)
	}
	if len(api.followups) != 1 || api.followups[0].Content != "scene" {
		t.Errorf("Expected one follow-up with the scene content, got %+v", api.followups)
	}
}

func TestDeliver_AllFail(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(nil))
	api := newFakeAPI()
	api.respondErr[discordgo.InteractionResponseUpdateMessage] = errBoom
	api.editErr = errBoom
	api.followupErr = errBoom

	if _, err := bot.deliver(api, componentInteraction("u1", "battle_move:u1:0"), view{}, false); err == nil {
		t.Fatal("Expected an error when every delivery fails")
	}
}

func TestDeliver_AcknowledgedSkipsRespond(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(nil))
	api := newFakeAPI()

	if _, err := bot.deliver(api, commandInteraction("u1"), view{Content: "scene"}, true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(api.responses) != 0 {
		t.Errorf("Expected no interaction responses, got %d", len(api.responses))
	}
	if len(api.edits) != 1 || *api.edits[0].Content != "scene" {
		t.Errorf("Expected one edit with the scene content")
	}
}

func TestPvE_InvalidTeam(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("team", "one two")})

	resp := api.lastResponse(t)
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Error("Expected an ephemeral response")
	}
	if !strings.Contains(resp.Data.Content, "is not a pokemon number") {
		t.Errorf("Unexpected content '%s'", resp.Data.Content)
	}
	if bot.Battles.Len() != 0 {
		t.Error("Expected no battle to start")
	}
}

func TestPvE_WithoutBossShowsSelection(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("team", "3 1 2")})

	resp := api.lastResponse(t)
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("Expected a channel message, got %d", resp.Type)
	}
	if resp.Data.Content != "Choose a boss to battle!" {
		t.Errorf("Unexpected content '%s'", resp.Data.Content)
	}
	menu := resp.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	if menu.CustomID != "boss_select:u1:3,1,2" {
		t.Errorf("Expected the team in the custom ID, got '%s'", menu.CustomID)
	}
}

func TestPvE_UnknownBoss(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "missingno")})

	if !strings.Contains(api.lastResponse(t).Data.Content, "Unknown boss `missingno`") {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}
}

func TestPvE_NotEnoughPokemon(t *testing.T) {
	bot, r := newTestBot(t, newFakeStore(mewtwoTeam()[:1]))
	api := newFakeAPI()

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "gym_leader_brock")})

	if len(api.edits) != 1 {
		t.Fatalf("Expected 1 edit, got %d", len(api.edits))
	}
	embeds := *api.edits[0].Embeds
	if embeds[0].Title != "Not Enough Pokémon" {
		t.Errorf("Expected 'Not Enough Pokémon', got '%s'", embeds[0].Title)
	}
	if !strings.Contains(embeds[0].Description, "at least 3") {
		t.Errorf("Unexpected description '%s'", embeds[0].Description)
	}
	if r.calls != 0 {
		t.Error("Expected no render")
	}
	if bot.Battles.Len() != 0 {
		t.Error("Expected no battle to start")
	}
}

func TestPvE_PokemonNotFound(t *testing.T) {
	st := newFakeStore(mewtwoTeam())
	st.teamErr = fmt.Errorf("%w: #9", store.ErrPokemonNotFound)
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{
		stringOption("boss", "gym_leader_brock"),
		stringOption("team", "1 2 9"),
	})

	embeds := *api.edits[0].Embeds
	if embeds[0].Title != "Pokémon Not Found" {
		t.Errorf("Expected 'Pokémon Not Found', got '%s'", embeds[0].Title)
	}
}

func TestPvE_AlreadyBattling(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	opts := []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "gym_leader_brock")}

	bot.pve(api, commandInteraction("u1"), opts)
	if bot.Battles.Len() != 1 {
		t.Fatalf("Expected 1 battle, got %d", bot.Battles.Len())
	}

	bot.pve(api, commandInteraction("u1"), opts)
	resp := api.lastResponse(t)
	if !strings.Contains(resp.Data.Content, "already in a battle") {
		t.Errorf("Unexpected content '%s'", resp.Data.Content)
	}
	if bot.Battles.Len() != 1 {
		t.Errorf("Expected still 1 battle, got %d", bot.Battles.Len())
	}
}

func TestPvE_StartFailsWhenUndeliverable(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	api.editErr = errBoom
	api.followupErr = errBoom

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "gym_leader_brock")})

	if bot.Battles.Active("u1") {
		t.Error("Expected the undeliverable battle to be abandoned")
	}
}

func TestPvE_RenderFailureFallsBackToText(t *testing.T) {
	bot, r := newTestBot(t, newFakeStore(mewtwoTeam()))
	r.err = errBoom
	api := newFakeAPI()

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "gym_leader_brock")})

	if len(api.edits) != 1 {
		t.Fatalf("Expected 1 edit, got %d", len(api.edits))
	}
	edit := api.edits[0]
	if !strings.HasPrefix(*edit.Content, "⚔️ ") {
		t.Errorf("Expected a text scene, got '%s'", *edit.Content)
	}
	if len(edit.Files) != 0 {
		t.Error("Expected no image attached")
	}
	if len(*edit.Components) == 0 {
		t.Error("Expected battle controls even without an image")
	}
	if !bot.Battles.Active("u1") {
		t.Error("Expected the battle to be running")
	}
}

func TestBossSelect_StartsBattle(t *testing.T) {
	bot, r := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.bossSelect(api, componentInteraction("u1", "boss_select:u1:1,2,3", "gym_leader_misty"))

	if api.responses[0].Type != discordgo.InteractionResponseDeferredMessageUpdate {
		t.Errorf("Expected a deferred update, got %d", api.responses[0].Type)
	}
	sess, ok := bot.Battles.Get("u1")
	if !ok {
		t.Fatal("Expected a battle to start")
	}
	if sess.Boss.Name != "Gym Leader Misty" {
		t.Errorf("Expected Misty, got %s", sess.Boss.Name)
	}
	if sess.MessageID != "edited" || sess.ChannelID != "channel" {
		t.Errorf("Expected the battle message to be remembered, got %s/%s", sess.ChannelID, sess.MessageID)
	}
	if r.calls != 1 {
		t.Errorf("Expected 1 render, got %d", r.calls)
	}
}

func TestBossSelect_WrongUser(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.bossSelect(api, componentInteraction("intruder", "boss_select:u1:", "gym_leader_misty"))

	if api.lastResponse(t).Data.Content != "This isn't your selection!" {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}
	if bot.Battles.Len() != 0 {
		t.Error("Expected no battle to start")
	}
}

func startBrock(t *testing.T, bot *DiscordBot, api *fakeAPI) {
	t.Helper()
	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "gym_leader_brock")})
	if !bot.Battles.Active("u1") {
		t.Fatal("Expected the battle to start")
	}
}

// control returns the custom ID of a control on u1's current battle
func control(t *testing.T, bot *DiscordBot, prefix string, args ...string) string {
	t.Helper()
	sess, ok := bot.Battles.Get("u1")
	if !ok {
		t.Fatal("Expected an active battle")
	}
	return customID(prefix, append([]string{"u1", battleToken(sess)}, args...)...)
}

func TestBattle_Victory(t *testing.T) {
	st := newFakeStore(mewtwoTeam())
	st.quest = store.BossQuest{Target: "Brock"}
	bot, r := newTestBot(t, st)
	api := newFakeAPI()

	startBrock(t, bot, api)

	bot.battleComponent(api, componentInteraction("u1", control(t, bot, moveID, "0")))
	if !bot.Battles.Active("u1") {
		t.Fatal("Expected the battle to continue after the first turn")
	}
	if ack := api.lastResponse(t); ack.Type != discordgo.InteractionResponseDeferredMessageUpdate {
		t.Errorf("Expected a deferred message update, got %d", ack.Type)
	}
	if len(api.lastEdit(t).Files) != 1 {
		t.Error("Expected the new scene attached")
	}

	bot.battleComponent(api, componentInteraction("u1", control(t, bot, moveID, "0")))
	if bot.Battles.Active("u1") {
		t.Error("Expected the finished battle to be unregistered")
	}

	result := api.lastEdit(t)
	if result.Embeds == nil || len(*result.Embeds) != 1 {
		t.Fatal("Expected a result embed")
	}
	embed := (*result.Embeds)[0]
	if embed.Title != "🎉 Victory!" {
		t.Errorf("Expected '🎉 Victory!', got '%s'", embed.Title)
	}
	if len(*result.Components) != 0 || len(result.Files) != 0 {
		t.Error("Expected the controls and scene to be cleared")
	}
	if embed.Footer.Text != "Battle lasted 2 turns" {
		t.Errorf("Unexpected footer '%s'", embed.Footer.Text)
	}

	if st.coins["u1"] != 500 {
		t.Errorf("Expected 500 coins, got %d", st.coins["u1"])
	}
	if len(st.quests) != 1 || st.quests[0] != "Brock" {
		t.Errorf("Expected one quest update for Brock, got %v", st.quests)
	}
	if embed.Fields[len(embed.Fields)-1].Name != "✅ Quest Complete!" {
		t.Errorf("Expected the quest field last, got '%s'", embed.Fields[len(embed.Fields)-1].Name)
	}
	if r.calls != 2 {
		t.Errorf("Expected 2 renders, got %d", r.calls)
	}
}

func TestBattle_RewardError(t *testing.T) {
	st := newFakeStore(mewtwoTeam())
	st.coinsErr = errBoom
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()

	startBrock(t, bot, api)
	bot.battleComponent(api, componentInteraction("u1", control(t, bot, moveID, "0")))
	bot.battleComponent(api, componentInteraction("u1", control(t, bot, moveID, "0")))

	embed := (*api.lastEdit(t).Embeds)[0]
	if embed.Title != "🎉 Victory!" {
		t.Errorf("Expected '🎉 Victory!', got '%s'", embed.Title)
	}
	if embed.Fields[0].Name != "⚠️ Reward Error" {
		t.Errorf("Expected a reward error field, got '%s'", embed.Fields[0].Name)
	}
}

func TestBattle_AcknowledgesBeforeRendering(t *testing.T) {
	bot, r := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	startBrock(t, bot, api)

	var ackedFirst bool
	r.before = func() {
		last := api.responses[len(api.responses)-1]
		ackedFirst = last.Type == discordgo.InteractionResponseDeferredMessageUpdate
	}

	bot.battleComponent(api, componentInteraction("u1", control(t, bot, moveID, "1")))

	if !ackedFirst {
		t.Error("Expected the turn to be acknowledged before the scene was rendered")
	}
	for _, resp := range api.responses {
		if resp.Type == discordgo.InteractionResponseUpdateMessage {
			t.Error("Expected no late message update after acknowledging")
		}
	}
}

func TestBattle_AckFailureEditsBattleMessage(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	startBrock(t, bot, api)
	edits := len(api.edits)

	api.respondErr[discordgo.InteractionResponseDeferredMessageUpdate] = errBoom
	bot.battleComponent(api, componentInteraction("u1", control(t, bot, moveID, "1")))

	if len(api.edits) != edits {
		t.Errorf("Expected no interaction edits without an acknowledgement, got %d", len(api.edits)-edits)
	}
	if len(api.channelEdits) != 1 {
		t.Fatalf("Expected the stored battle message to be edited, got %d edits", len(api.channelEdits))
	}
	edit := api.channelEdits[0]
	if edit.ID != "edited" || edit.Channel != "channel" {
		t.Errorf("Expected the battle message to be edited, got %s/%s", edit.Channel, edit.ID)
	}
	if len(edit.Files) != 1 {
		t.Error("Expected the new scene attached")
	}
}

func TestBattle_StaleControlsRejected(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	startBrock(t, bot, api)
	stale := control(t, bot, moveID, "0")
	bot.finish(api, commandInteraction("u1"))

	bot.pve(api, commandInteraction("u1"), []*discordgo.ApplicationCommandInteractionDataOption{stringOption("boss", "gym_leader_misty")})
	fresh, ok := bot.Battles.Get("u1")
	if !ok {
		t.Fatal("Expected the new battle to start")
	}
	messageID := fresh.MessageID

	old := componentInteraction("u1", stale)
	old.Message = &discordgo.Message{ID: "old-brock-message", ChannelID: "channel"}
	bot.battleComponent(api, old)

	if api.lastResponse(t).Data.Content != notActive {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}
	if fresh.TurnCount != 0 {
		t.Errorf("Expected the new battle untouched, got %d turns", fresh.TurnCount)
	}
	if fresh.MessageID != messageID {
		t.Errorf("Expected the battle message to stay %s, got %s", messageID, fresh.MessageID)
	}
}

func TestBattle_WrongUser(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	startBrock(t, bot, api)

	bot.battleComponent(api, componentInteraction("intruder", control(t, bot, moveID, "0")))

	if api.lastResponse(t).Data.Content != "This isn't your battle!" {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}
	sess, _ := bot.Battles.Get("u1")
	if sess.TurnCount != 0 {
		t.Errorf("Expected no turn to be played, got %d", sess.TurnCount)
	}
}

func TestBattle_NoLongerActive(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.battleComponent(api, componentInteraction("u1", "battle_move:u1:1:0"))

	if api.lastResponse(t).Data.Content != notActive {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}
}

func TestBattle_InvalidSwitch(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	startBrock(t, bot, api)

	bot.battleComponent(api, componentInteraction("u1", control(t, bot, switchID), "0"))

	resp := api.lastResponse(t)
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral || !strings.HasPrefix(resp.Data.Content, "⚠️ ") {
		t.Errorf("Expected an ephemeral warning, got '%s'", resp.Data.Content)
	}
	if !bot.Battles.Active("u1") {
		t.Error("Expected the battle to continue")
	}
}

func TestBattle_Switch(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	startBrock(t, bot, api)

	bot.battleComponent(api, componentInteraction("u1", control(t, bot, switchID), "2"))

	sess, ok := bot.Battles.Get("u1")
	if !ok {
		t.Fatal("Expected the battle to continue")
	}
	if sess.UserActive != 2 {
		t.Errorf("Expected slot 2 active, got %d", sess.UserActive)
	}
	if sess.TurnCount != 1 {
		t.Errorf("Expected the switch to use a turn, got %d", sess.TurnCount)
	}
}

func TestBattle_Flee(t *testing.T) {
	st := newFakeStore(mewtwoTeam())
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()
	startBrock(t, bot, api)

	bot.battleComponent(api, componentInteraction("u1", control(t, bot, fleeID)))

	if bot.Battles.Active("u1") {
		t.Error("Expected the battle to be unregistered")
	}
	embed := api.lastResponse(t).Data.Embeds[0]
	if embed.Title != "Battle Ended" {
		t.Errorf("Expected 'Battle Ended', got '%s'", embed.Title)
	}
	if len(st.coins) != 0 {
		t.Error("Expected no reward for fleeing")
	}
}

func TestFinishCommand(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()

	bot.finish(api, commandInteraction("u1"))
	if api.lastResponse(t).Data.Content != "You don't have an active battle." {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}

	startBrock(t, bot, api)
	bot.finish(api, commandInteraction("u1"))
	if !strings.HasPrefix(api.lastResponse(t).Data.Content, "✅ Your battle has been cleared") {
		t.Errorf("Unexpected content '%s'", api.lastResponse(t).Data.Content)
	}
	if bot.Battles.Active("u1") {
		t.Error("Expected the battle to be cleared")
	}
}

func TestBossesCommand(t *testing.T) {
	st := newFakeStore(nil)
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()

	bot.bosses(api, commandInteraction("u1"))

	if api.responses[0].Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Errorf("Expected a deferred response, got %d", api.responses[0].Type)
	}
	embeds := *api.edits[0].Embeds
	quest := embeds[0].Fields[len(embeds[0].Fields)-1]
	if !strings.Contains(quest.Value, "**Brock**") {
		t.Errorf("Expected Brock as the quest target, got '%s'", quest.Value)
	}
}

func TestBossesCommand_ShowsBalanceAndWins(t *testing.T) {
	st := newFakeStore(nil)
	st.coins["u1"] = 750
	st.wins = map[string]int{"Brock": 1}
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()

	bot.bosses(api, commandInteraction("u1"))

	footer := (*api.edits[0].Embeds)[0].Footer
	if footer == nil {
		t.Fatal("Expected a balance footer")
	}
	if footer.Text != "💰 Balance: 750 coins • Wins against Brock today: 1" {
		t.Errorf("Unexpected footer '%s'", footer.Text)
	}
}

func TestBossesCommand_BalanceError(t *testing.T) {
	st := newFakeStore(nil)
	st.coinsErr = errBoom
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()

	bot.bosses(api, commandInteraction("u1"))

	if footer := (*api.edits[0].Embeds)[0].Footer; footer != nil {
		t.Errorf("Expected no footer without a balance, got '%s'", footer.Text)
	}
}

func TestBossesCommand_QuestError(t *testing.T) {
	st := newFakeStore(nil)
	st.questErr = errBoom
	bot, _ := newTestBot(t, st)
	api := newFakeAPI()

	bot.bosses(api, commandInteraction("u1"))

	embeds := *api.edits[0].Embeds
	if len(embeds[0].Fields) != len(bot.Data.Bosses()) {
		t.Errorf("Expected the boss list without a quest, got %d fields", len(embeds[0].Fields))
	}
}

func TestExpireBattle(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	api := newFakeAPI()
	startBrock(t, bot, api)

	sess, _ := bot.Battles.Get("u1")
	bot.Battles.Remove(sess)
	bot.expireBattle(api, sess)

	if len(api.channelEdits) != 1 {
		t.Fatalf("Expected 1 channel edit, got %d", len(api.channelEdits))
	}
	edit := api.channelEdits[0]
	if edit.ID != "edited" || edit.Channel != "channel" {
		t.Errorf("Expected the battle message to be edited, got %s/%s", edit.Channel, edit.ID)
	}
	if (*edit.Embeds)[0].Title != "⌛ Battle Expired" {
		t.Errorf("Unexpected title '%s'", (*edit.Embeds)[0].Title)
	}
	if len(*edit.Components) != 0 || len(*edit.Attachments) != 0 {
		t.Error("Expected the controls and scene to be cleared")
	}
}

func TestExpireBattle_UnknownMessage(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(nil))
	api := newFakeAPI()
	data := loadData(t)
	boss, _ := data.Boss("gym_leader_brock")
	m, err := battle.NewManager("u1", boss, mewtwoTeam(), data, battle.Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	bot.expireBattle(api, &battle.Session{Manager: m})

	if len(api.channelEdits) != 0 {
		t.Errorf("Expected no edit without a known message, got %d", len(api.channelEdits))
	}
}

func TestJanitorExpiresIdleBattles(t *testing.T) {
	bot, _ := newTestBot(t, newFakeStore(mewtwoTeam()))
	bot.Battles = battle.NewRegistry(time.Millisecond)
	api := newFakeAPI()

	bot.Battles.OnExpire(func(s *battle.Session) { bot.expireBattle(api, s) })
	startBrock(t, bot, api)

	time.Sleep(5 * time.Millisecond)
	expired := bot.Battles.PurgeIdle()

	if len(expired) != 1 || expired[0].UserID != "u1" {
		t.Fatalf("Expected u1's battle to expire, got %d battles", len(expired))
	}
	if bot.Battles.Active("u1") {
		t.Error("Expected the idle battle to be removed")
	}
	if len(api.channelEdits) != 1 {
		t.Errorf("Expected the battle message to be marked expired, got %d edits", len(api.channelEdits))
	}
}

func TestResultEmbed_Defeat(t *testing.T) {
	data := loadData(t)
	boss, _ := data.Boss("gym_leader_brock")
	weak := []battle.Owned{{PokemonID: 10, Name: "Caterpie", Level: 1, Moves: []string{"Tackle"}}}
	m, err := battle.NewManager("u1", boss, weak, data, battle.Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	for !m.Over() {
		if _, err := m.ProcessTurn(battle.UseMove(0)); err != nil {
			t.Fatalf("ProcessTurn failed: %v", err)
		}
	}
	if m.Outcome() != battle.Defeat {
		t.Fatalf("Expected a defeat, got %s", m.Outcome())
	}

	embed := resultEmbed(m, battle.Reward{}, nil)
	if embed.Title != "💀 Defeat..." {
		t.Errorf("Expected '💀 Defeat...', got '%s'", embed.Title)
	}
	if embed.Description != "Gym Leader Brock defeated your team!" {
		t.Errorf("Unexpected description '%s'", embed.Description)
	}
	if embed.Fields[0].Name != "💡 Tip" {
		t.Errorf("Expected a tip, got '%s'", embed.Fields[0].Name)
	}
}

func TestRecapPrompt(t *testing.T) {
	data := loadData(t)
	boss, _ := data.Boss("gym_leader_brock")
	m, err := battle.NewManager("u1", boss, mewtwoTeam(), data, battle.Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	for !m.Over() {
		if _, err := m.ProcessTurn(battle.UseMove(0)); err != nil {
			t.Fatalf("ProcessTurn failed: %v", err)
		}
	}

	prompt := recapPrompt(m)
	if !strings.HasPrefix(prompt, "A trainer defeated Gym Leader Brock after 2 turns.") {
		t.Errorf("Unexpected prompt start '%s'", prompt)
	}
	if !strings.Contains(prompt, "Mewtwo (Lv.100)") {
		t.Errorf("Expected the team in the prompt, got '%s'", prompt)
	}
	if !strings.Contains(prompt, "Mewtwo used Surf!") {
		t.Errorf("Expected the battle log in the prompt, got '%s'", prompt)
	}
}

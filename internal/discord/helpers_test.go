package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/store"
	"github.com/rs/zerolog"
)

// fakeAPI records every Discord call and fails the ones it is told to
type fakeAPI struct {
	mu sync.Mutex

	respondErr     map[discordgo.InteractionResponseType]error
	editErr        error
	followupErr    error
	channelEditErr error

	responses    []*discordgo.InteractionResponse
	edits        []*discordgo.WebhookEdit
	followups    []*discordgo.WebhookParams
	channelEdits []*discordgo.MessageEdit
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{respondErr: map[discordgo.InteractionResponseType]error{}}
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return f.respondErr[resp.Type]
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	if f.editErr != nil {
		return nil, f.editErr
	}
	return &discordgo.Message{ID: "edited", ChannelID: "channel"}, nil
}

func (f *fakeAPI) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, params *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, params)
	if f.followupErr != nil {
		return nil, f.followupErr
	}
	return &discordgo.Message{ID: "followup", ChannelID: "channel"}, nil
}

func (f *fakeAPI) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelEdits = append(f.channelEdits, m)
	if f.channelEditErr != nil {
		return nil, f.channelEditErr
	}
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

// lastResponse returns the most recent InteractionRespond payload
func (f *fakeAPI) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	if len(f.responses) == 0 {
		t.Fatal("Expected an interaction response, got none")
	}
	return f.responses[len(f.responses)-1]
}

// lastEdit returns the most recent InteractionResponseEdit payload
func (f *fakeAPI) lastEdit(t *testing.T) *discordgo.WebhookEdit {
	t.Helper()
	if len(f.edits) == 0 {
		t.Fatal("Expected an interaction response edit, got none")
	}
	return f.edits[len(f.edits)-1]
}

type fakeStore struct {
	mu sync.Mutex

	team    []battle.Owned
	teamErr error

	coins    map[string]int
	coinsErr error
	quests   []string
	quest    store.BossQuest
	questErr error
	wins     map[string]int
}

func newFakeStore(team []battle.Owned) *fakeStore {
	return &fakeStore{team: team, coins: map[string]int{}}
}

func (f *fakeStore) Team(_ context.Context, _ string, numbers []int, size int) ([]battle.Owned, error) {
	if f.teamErr != nil {
		return nil, f.teamErr
	}
	if len(f.team) < size {
		return nil, battle.ErrNotEnoughPokemon
	}
	return f.team, nil
}

func (f *fakeStore) AwardCoins(_ context.Context, userID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coinsErr != nil {
		return f.coinsErr
	}
	f.coins[userID] += amount
	return nil
}

func (f *fakeStore) RecordBossVictory(_ context.Context, _ string, target string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quests = append(f.quests, target)
	return target == f.quest.Target, nil
}

func (f *fakeStore) DailyBossQuest(_ context.Context, userID string, candidates []string) (store.BossQuest, error) {
	if f.questErr != nil {
		return store.BossQuest{}, f.questErr
	}
	q := f.quest
	q.UserID = userID
	if q.Target == "" && len(candidates) > 0 {
		q.Target = candidates[0]
	}
	return q, nil
}

func (f *fakeStore) Coins(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coinsErr != nil {
		return 0, f.coinsErr
	}
	return f.coins[userID], nil
}

func (f *fakeStore) BossWins(_ context.Context, _ string, boss string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wins[boss], nil
}

type fakeRenderer struct {
	err   error
	calls int
	// before runs at the start of every render
	before func()
}

func (f *fakeRenderer) Render(_ context.Context, _ battle.Snapshot) ([]byte, error) {
	f.calls++
	if f.before != nil {
		f.before()
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG fake"), nil
}

func loadData(t *testing.T) *pokedata.Data {
	t.Helper()
	data, err := pokedata.Load("../../data", zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to load data: %v", err)
	}
	return data
}

// mewtwoTeam outclasses every early boss so battles end deterministically
func mewtwoTeam() []battle.Owned {
	team := make([]battle.Owned, 3)
	for i := range team {
		team[i] = battle.Owned{PokemonID: 150, Name: "Mewtwo", Level: 100, Moves: []string{"Surf", "Psychic"}}
	}
	return team
}

func newTestBot(t *testing.T, st *fakeStore) (*DiscordBot, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	bot := newBot(&Config{TeamSize: 3, ViewTimeout: time.Minute}, Deps{
		Data:     loadData(t),
		Store:    st,
		Renderer: r,
		Logger:   zerolog.Nop(),
	})
	return bot, r
}

func commandInteraction(userID string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    "pve",
			Options: options,
		},
	}
}

func componentInteraction(userID, id string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID}},
		Message: &discordgo.Message{ID: "battle-message", ChannelID: "channel"},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: id,
			Values:   values,
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

var errBoom = errors.New("boom")

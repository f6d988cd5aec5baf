package tickers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
)

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	market := newFakeMarket()
	market.snapshots["DEAD3.SA"] = &contracts.Snapshot{Currency: "BRL"}

	lists := Lists{Fallback: []string{"VALE3.SA", "PETR4.SA"}, Alternates: []string{"DEAD3.SA"}}
	source := &fakeSource{symbols: []string{"PETR4.SA", "ITUB4.SA"}}

	res, err := NewScanner(source, market, lists, dir, logger.NewNop()).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"PETR4.SA", "ITUB4.SA", "VALE3.SA", "DEAD3.SA"}, res.All)
	assert.Equal(t, []string{"PETR4.SA", "ITUB4.SA", "VALE3.SA"}, res.Active)

	all, err := os.ReadFile(filepath.Join(dir, AllTickersFile))
	require.NoError(t, err)
	assert.Equal(t, "Ticker\nPETR4.SA\nITUB4.SA\nVALE3.SA\nDEAD3.SA\n", string(all))

	active, err := os.ReadFile(filepath.Join(dir, ActiveTickersFile))
	require.NoError(t, err)
	assert.Equal(t, "Ticker\nPETR4.SA\nITUB4.SA\nVALE3.SA\n", string(active))
}

func TestScanner_CandidateErrorUsesLists(t *testing.T) {
	lists := Lists{Fallback: []string{"VALE3.SA"}}
	res, err := NewScanner(&fakeSource{err: errNetwork}, newFakeMarket(), lists, t.TempDir(), logger.NewNop()).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"VALE3.SA"}, res.All)
}

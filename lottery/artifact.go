package lottery

import (
	_ "embed"
	"fmt"

	"github.com/blocklords/lottery/blockchain/evm/abi"
)

// ARTIFACT_NAME is the contract name of the bundled build.
// The native chain hosts the Program under this name.
const ARTIFACT_NAME = "Lottery"

//go:embed Lottery.json
var artifact_json []byte

// Artifact returns the bundled EVM build of the lottery.
//
// The build accepts the entries strictly above 0.01 ether
// and lists the players with getPlayers.
func Artifact() (*abi.Artifact, error) {
	artifact, err := abi.NewFromJson(artifact_json)
	if err != nil {
		return nil, fmt.Errorf("abi.NewFromJson: %w", err)
	}
	return artifact, nil
}

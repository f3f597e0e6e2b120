package database_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ardanlabs/chatchain/foundation/blockchain/database"
)

func Test_TxEncoding(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	duration := uint64(30)

	type table struct {
		name string
		tx   database.Tx
	}

	tt := []table{
		{
			name: "register",
			tx: database.UserRegister{UserProfile: database.UserProfile{
				Address: "alice", Username: "Alice", PublicKey: "pk", LastSeen: ts, TokenBalance: 100,
			}},
		},
		{
			name: "status",
			tx: database.StatusUpdate{OnlineStatus: database.OnlineStatus{
				Address: "alice", Username: "Alice", Status: database.StatusOnline, NodeID: "n1", TimeStamp: ts,
			}},
		},
		{
			name: "connection",
			tx: database.ConnectionEstablished{ConnectionRecord: database.ConnectionRecord{
				FromAddress: "alice", ToAddress: "bob", ConnectionType: database.ConnectionP2P, TimeStamp: ts, Duration: &duration,
			}},
		},
		{
			name: "reward",
			tx: database.RewardIssued{Reward: database.Reward{
				UserAddress: "alice", Action: "connect", RewardAmount: 20, TimeStamp: ts,
			}},
		},
	}

	t.Log("Given the need to record transactions in block payloads.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					data, err := database.EncodeTx(tst.tx)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to encode: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to encode.", success, testID)

					tx, err := database.DecodeTx(data)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to decode: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to decode.", success, testID)

					if tx.Kind() != tst.tx.Kind() {
						t.Fatalf("\t%s\tTest %d:\tShould keep the kind: got %s, exp %s", failed, testID, tx.Kind(), tst.tx.Kind())
					}

					if !reflect.DeepEqual(tx, tst.tx) {
						t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, tx)
						t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, tst.tx)
						t.Fatalf("\t%s\tTest %d:\tShould get back the same transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same transaction.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_TxWireFormat(t *testing.T) {
	t.Log("Given the need to keep the payload format stable.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen encoding a reward.", testID)
		{
			tx := database.RewardIssued{Reward: database.Reward{
				UserAddress:  "alice",
				Action:       "register",
				RewardAmount: 100,
				TimeStamp:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}}

			data, err := database.EncodeTx(tx)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to encode: %v", failed, testID, err)
			}

			exp := `{"RewardIssued":{"user_address":"alice","action":"register","reward_amount":100,"timestamp":"2024-01-01T00:00:00Z"}}`
			if data != exp {
				t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, data)
				t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, exp)
				t.Fatalf("\t%s\tTest %d:\tShould tag the payload with the kind.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould tag the payload with the kind.", success, testID)
		}
	}
}

func Test_TxMalformed(t *testing.T) {
	tt := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not json", data: "garbage"},
		{name: "array", data: `[1,2]`},
		{name: "no kind", data: `{}`},
		{name: "two kinds", data: `{"UserRegister":{},"RewardIssued":{}}`},
		{name: "unknown kind", data: `{"MessageSent":{"from":"a"}}`},
		{name: "null payload", data: `{"UserRegister":null}`},
		{name: "wrong field type", data: `{"RewardIssued":{"reward_amount":"ten"}}`},
		{name: "unknown field", data: `{"StatusUpdate":{"address":"a","mood":"happy"}}`},
	}

	t.Log("Given the need to reject payloads that are not a known transaction.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen decoding the %s payload.", testID, tst.name)
			{
				f := func(t *testing.T) {
					_, err := database.DecodeTx(tst.data)
					if !errors.Is(err, database.ErrMalformedTx) {
						t.Fatalf("\t%s\tTest %d:\tShould be rejected as malformed: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be rejected as malformed.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

// =============================================================================

// kindCounter counts the transactions it visits by kind.
type kindCounter map[string]int

func (k kindCounter) VisitUserRegister(tx database.UserRegister) {
	k[tx.Kind()]++
}

func (k kindCounter) VisitStatusUpdate(tx database.StatusUpdate) {
	k[tx.Kind()]++
}

func (k kindCounter) VisitConnectionEstablished(tx database.ConnectionEstablished) {
	k[tx.Kind()]++
}

func (k kindCounter) VisitRewardIssued(tx database.RewardIssued) {
	k[tx.Kind()]++
}

func Test_TxVisitor(t *testing.T) {
	t.Log("Given the need to dispatch on the transaction kind.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen visiting one of each kind.", testID)
		{
			txs := []database.Tx{
				database.UserRegister{},
				database.StatusUpdate{},
				database.ConnectionEstablished{},
				database.RewardIssued{},
				database.RewardIssued{},
			}

			counter := kindCounter{}
			for _, tx := range txs {
				tx.Accept(counter)
			}

			exp := kindCounter{
				database.KindUserRegister:          1,
				database.KindStatusUpdate:          1,
				database.KindConnectionEstablished: 1,
				database.KindRewardIssued:          2,
			}
			if !reflect.DeepEqual(counter, exp) {
				t.Fatalf("\t%s\tTest %d:\tShould reach the matching method: got %v", failed, testID, counter)
			}
			t.Logf("\t%s\tTest %d:\tShould reach the matching method.", success, testID)
		}
	}
}

package domain

import (
	"context"
	"time"
)

const BridgeTopic = "bridge"

type EventType int

const (
	_ EventType = iota
	EventTypeDepositProcessed
	EventTypeWithdrawalProcessed
)

type Event interface {
	GetTopic() string
	GetType() EventType
}

type DepositProcessed struct {
	Id        string
	Type      EventType
	Caller    Address
	Recipient Owner
	Value     string
	Coin      Coin
	Timestamp int64
}

func (e DepositProcessed) GetTopic() string   { return BridgeTopic }
func (e DepositProcessed) GetType() EventType { return EventTypeDepositProcessed }

type WithdrawalProcessed struct {
	Id         string
	Type       EventType
	Caller     Address
	SpentCoins []CoinId
	Change     *Coin
	Amount     uint64
	Credited   string
	Timestamp  int64
}

func (e WithdrawalProcessed) GetTopic() string   { return BridgeTopic }
func (e WithdrawalProcessed) GetType() EventType { return EventTypeWithdrawalProcessed }

func NewDepositProcessed(
	id string, caller Address, recipient Owner, value string, coin Coin,
) DepositProcessed {
	return DepositProcessed{
		Id:        id,
		Type:      EventTypeDepositProcessed,
		Caller:    caller,
		Recipient: recipient,
		Value:     value,
		Coin:      coin,
		Timestamp: time.Now().Unix(),
	}
}

func NewWithdrawalProcessed(
	id string, caller Address, spent []CoinId, change *Coin, amount uint64, credited string,
) WithdrawalProcessed {
	return WithdrawalProcessed{
		Id:         id,
		Type:       EventTypeWithdrawalProcessed,
		Caller:     caller,
		SpentCoins: spent,
		Change:     change,
		Amount:     amount,
		Credited:   credited,
		Timestamp:  time.Now().Unix(),
	}
}

type EventRepository interface {
	Save(ctx context.Context, topic, id string, events []Event) error
	RegisterEventsHandler(topic string, handler func(events []Event))
	ClearRegisteredHandlers(topics ...string)
	Close()
}

package models

// CardInfoDto is the transport shape of a payment card
type CardInfoDto struct {
	CardID         int64  `json:"cardId" msgpack:"cardId"`
	Number         string `json:"number" msgpack:"number" validate:"notblank,len=16,number"`
	Holder         string `json:"holder" msgpack:"holder" validate:"notblank,max=100"`
	ExpirationDate *Date  `json:"expirationDate" msgpack:"expirationDate" validate:"omitempty,future"`
	UserID         *int64 `json:"userId" msgpack:"userId"`
}

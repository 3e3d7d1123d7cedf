// Package layers plugs the transport decoder into gopacket.
package layers

import (
	"github.com/google/gopacket"
	golayers "github.com/google/gopacket/layers"
	"github.com/vuuvv/qnet6/core"
	"github.com/vuuvv/qnet6/decoder"
)

// EthernetTypeQnet6 is the ethertype QNET6 frames are carried under.
const EthernetTypeQnet6 golayers.EthernetType = 0x8204

var LayerTypeQnet6 = gopacket.RegisterLayerType(
	2206,
	gopacket.LayerTypeMetadata{
		Name:    "QNET6",
		Decoder: gopacket.DecodeFunc(decodeQnet6),
	},
)

// Qnet6 is one decoded transport frame. Contents are the bytes the decoder
// consumed, Payload whatever follows them.
type Qnet6 struct {
	golayers.BaseLayer
	*decoder.Result

	Options core.Options
}

func (q *Qnet6) LayerType() gopacket.LayerType {
	return LayerTypeQnet6
}

func (q *Qnet6) CanDecode() gopacket.LayerClass {
	return LayerTypeQnet6
}

func (q *Qnet6) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func (q *Qnet6) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	res, err := decoder.Decode(data, q.Options)
	if err != nil {
		df.SetTruncated()
		return err
	}
	q.Result = res
	q.BaseLayer = golayers.BaseLayer{Contents: data[:res.Consumed], Payload: data[res.Consumed:]}
	return nil
}

func decodeQnet6(data []byte, p gopacket.PacketBuilder) error {
	q := &Qnet6{Options: core.DefaultOptions()}
	if err := q.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(q)
	if len(q.BaseLayer.Payload) == 0 {
		return nil
	}
	return p.NextDecoder(gopacket.LayerTypePayload)
}

// Register makes Ethernet frames with EthernetTypeQnet6 decode as Qnet6.
func Register() {
	golayers.EthernetTypeMetadata[EthernetTypeQnet6] = golayers.EnumMetadata{
		DecodeWith: gopacket.DecodeFunc(decodeQnet6),
		Name:       "QNET6",
		LayerType:  LayerTypeQnet6,
	}
}

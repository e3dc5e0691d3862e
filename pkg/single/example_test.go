package single_test

import (
	"fmt"
	"log"
	"time"

	"github.com/jheon/lib-hsms-go/pkg/generic"
	"github.com/jheon/lib-hsms-go/pkg/hsms"
	"github.com/jheon/lib-hsms-go/pkg/primitive"
	"github.com/jheon/lib-hsms-go/pkg/secs2"
	"github.com/jheon/lib-hsms-go/pkg/single"
)

// A host dials the equipment, establishes the session, and asks for the
// equipment's online data (S1F1/S1F2).
func Example_host() {
	settings := generic.DefaultParameterSettings()
	settings.ConnectMode = primitive.ModeActive
	settings.LinktestInterval = 30 * time.Second

	host, err := single.New(settings)
	if err != nil {
		log.Fatal(err)
	}

	_, _, err = host.Connect("10.0.0.2:5000")
	if err != nil {
		log.Fatal(err)
	}
	defer host.Disconnect()

	id := hsms.MessageID{Session: single.SessionID, System: host.NextSystemBytes()}
	handle, err := host.Data(hsms.NewDataMessage(id, 1, 1, true, nil))
	if err != nil {
		log.Fatal(err)
	}

	reply, err := handle.ReplyData()
	if err != nil {
		log.Fatal(err)
	}

	item, err := secs2.Decode(reply.Text())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(item)
}

// An equipment accepts the host's connection and serves primary messages
// from the inbound data queue.
func Example_equipment() {
	settings := generic.DefaultParameterSettings()
	settings.ConnectMode = primitive.ModePassive

	equipment, err := single.New(settings)
	if err != nil {
		log.Fatal(err)
	}

	_, inbox, err := equipment.Connect(":5000")
	if err != nil {
		log.Fatal(err)
	}
	defer equipment.Disconnect()

	for {
		primary, err := inbox.Next()
		if err != nil {
			return
		}

		if primary.StreamCode() == 1 && primary.FunctionCode() == 1 && primary.WaitBit() {
			text := secs2.NewList(secs2.NewASCII("EQP1"), secs2.NewASCII("1.0.0")).ToBytes()
			if err := equipment.Respond(primary.ID(), 1, 2, text); err != nil {
				return
			}
		}
	}
}

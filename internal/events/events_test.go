package events

import (
	"context"
	"reflect"
	"testing"
)

func TestMulti_PublishesToAll(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, nil, Nop{}, b}

	m.Publish(context.Background(), Event{Event: SaleRecorded})
	m.Publish(context.Background(), Event{Event: SaleDeleted})

	want := []string{SaleRecorded, SaleDeleted}
	if !reflect.DeepEqual(a.Names(), want) || !reflect.DeepEqual(b.Names(), want) {
		t.Errorf("recorded %v and %v, want %v", a.Names(), b.Names(), want)
	}
}

package engine

import "errors"

// fakeTransport is an in-process Transport backed by channels, used to
// drive the engine against a scripted peer without a real socket.
type fakeTransport struct {
	send   chan<- []byte
	recv   <-chan []byte
	closed chan struct{}
}

// fakeTransportPair returns two fakeTransports wired to each other: frames
// sent on one arrive on the other's Recv.
func fakeTransportPair() (client *fakeTransport, peer *fakeTransport) {
	clientToPeer := make(chan []byte, 64)
	peerToClient := make(chan []byte, 64)
	client = &fakeTransport{send: clientToPeer, recv: peerToClient, closed: make(chan struct{})}
	peer = &fakeTransport{send: peerToClient, recv: clientToPeer, closed: make(chan struct{})}
	return client, peer
}

func (f *fakeTransport) Send(frame []byte) error {
	select {
	case f.send <- frame:
		return nil
	case <-f.closed:
		return errors.New("fake transport closed")
	}
}

func (f *fakeTransport) Recv() ([]byte, error) {
	select {
	case frame := <-f.recv:
		return frame, nil
	case <-f.closed:
		return nil, errors.New("fake transport closed")
	}
}

func (f *fakeTransport) Close() error {
	select {
	case <-f.closed:
	default:
		close(f.closed)
	}
	return nil
}

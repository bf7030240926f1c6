package rpc

//
// Hand-written gRPC service definition (spec.md §4.10, §6).
//
// No protoc toolchain is available in this environment, so the
// grpc.ServiceDesc/grpc.MethodDesc tables below are authored by hand in the
// same shape protoc-gen-go-grpc emits, carrying plain Go structs as
// messages instead of generated protobuf types. This keeps the real
// google.golang.org/grpc server and client machinery in play (dispatch,
// interceptors, status codes) while treating the wire encoding itself as
// the out-of-scope concern spec.md §1 assigns to an external collaborator.
//

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// serviceName is the fully-qualified gRPC service name.
const serviceName = "wmediumd.Wmediumd"

// SetPositionRequest moves a station to an absolute position.
type SetPositionRequest struct {
	HWAddr string  `json:"hwaddr"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// SetPositionResponse is empty; success is the absence of an error.
type SetPositionResponse struct{}

// SetTxPowerRequest sets a station's transmit power.
type SetTxPowerRequest struct {
	HWAddr string  `json:"hwaddr"`
	DBm    float64 `json:"dbm"`
}

// SetTxPowerResponse is empty; success is the absence of an error.
type SetTxPowerResponse struct{}

// SetSNRRequest pins or clears the SNR override between two stations
// (spec.md §4.3: "per-link SNR override pinning"). Clear is true to remove
// a previously set override instead of setting SNRDB.
type SetSNRRequest struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	SNRDB float64 `json:"snr_db"`
	Clear bool    `json:"clear"`
}

// SetSNRResponse is empty; success is the absence of an error.
type SetSNRResponse struct{}

// SetLciRequest sets a station's FTM-responder LCI location string.
type SetLciRequest struct {
	HWAddr string `json:"hwaddr"`
	LCI    []byte `json:"lci"`
}

// SetLciResponse is empty; success is the absence of an error.
type SetLciResponse struct{}

// SetCivicRequest sets a station's FTM-responder CIVIC location string.
type SetCivicRequest struct {
	HWAddr string `json:"hwaddr"`
	Civic  []byte `json:"civic"`
}

// SetCivicResponse is empty; success is the absence of an error.
type SetCivicResponse struct{}

// LoadConfigRequest atomically replaces the running station set with the
// one described by the file at Path (spec.md §6: "the simulator reloads it
// atomically: build new registry, swap in under the scheduler thread, free
// old").
type LoadConfigRequest struct {
	Path string `json:"path"`
}

// LoadConfigResponse is empty; success is the absence of an error.
type LoadConfigResponse struct{}

// ReloadConfigRequest re-applies the last successfully loaded configuration
// path.
type ReloadConfigRequest struct{}

// ReloadConfigResponse is empty; success is the absence of an error.
type ReloadConfigResponse struct{}

// StationInfo describes one currently known station (spec.md §4.10:
// "ListStations() -> [{addr, hwaddr, x, y, tx_power, lci, civicloc}]").
type StationInfo struct {
	HWAddr     string  `json:"hwaddr"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	TxPowerDBm float64 `json:"tx_power"`
	LCI        []byte  `json:"lci"`
	Civic      []byte  `json:"civicloc"`
}

// ListStationsRequest has no fields.
type ListStationsRequest struct{}

// ListStationsResponse lists every station the simulator currently knows
// about.
type ListStationsResponse struct {
	Stations []StationInfo `json:"stations"`
}

// StartCaptureRequest begins writing received frames to a PCAP file.
type StartCaptureRequest struct {
	Path string `json:"path"`
}

// StartCaptureResponse is empty; success is the absence of an error.
type StartCaptureResponse struct{}

// StopCaptureResponse is empty; success is the absence of an error.
type StopCaptureResponse struct{}

// Server is the interface the simulator implements to serve RPCs. Every
// method runs on whatever goroutine gRPC calls it from; an implementation
// backed by the simulator core must route through a [Bridge] to reach the
// scheduler goroutine safely (spec.md §5).
type Server interface {
	SetPosition(ctx context.Context, req *SetPositionRequest) (*SetPositionResponse, error)
	SetTxPower(ctx context.Context, req *SetTxPowerRequest) (*SetTxPowerResponse, error)
	SetSNR(ctx context.Context, req *SetSNRRequest) (*SetSNRResponse, error)
	SetLci(ctx context.Context, req *SetLciRequest) (*SetLciResponse, error)
	SetCivicloc(ctx context.Context, req *SetCivicRequest) (*SetCivicResponse, error)
	LoadConfig(ctx context.Context, req *LoadConfigRequest) (*LoadConfigResponse, error)
	ReloadConfig(ctx context.Context, req *ReloadConfigRequest) (*ReloadConfigResponse, error)
	ListStations(ctx context.Context, req *ListStationsRequest) (*ListStationsResponse, error)
	StartCapture(ctx context.Context, req *StartCaptureRequest) (*StartCaptureResponse, error)
	StopCapture(ctx context.Context, req *struct{}) (*StopCaptureResponse, error)
}

func handlerSetPosition(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SetPositionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).SetPosition(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/SetPosition"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).SetPosition(ctx, req.(*SetPositionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerSetTxPower(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SetTxPowerRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).SetTxPower(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/SetTxPower"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).SetTxPower(ctx, req.(*SetTxPowerRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerSetSNR(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SetSNRRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).SetSNR(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/SetSNR"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).SetSNR(ctx, req.(*SetSNRRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerSetLci(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SetLciRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).SetLci(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/SetLci"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).SetLci(ctx, req.(*SetLciRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerSetCivicloc(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SetCivicRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).SetCivicloc(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/SetCivicloc"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).SetCivicloc(ctx, req.(*SetCivicRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerLoadConfig(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(LoadConfigRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).LoadConfig(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/LoadConfig"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).LoadConfig(ctx, req.(*LoadConfigRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerReloadConfig(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(ReloadConfigRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).ReloadConfig(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ReloadConfig"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).ReloadConfig(ctx, req.(*ReloadConfigRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerListStations(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(ListStationsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).ListStations(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListStations"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).ListStations(ctx, req.(*ListStationsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerStartCapture(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(StartCaptureRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).StartCapture(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/StartCapture"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).StartCapture(ctx, req.(*StartCaptureRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handlerStopCapture(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(struct{})
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).StopCapture(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/StopCapture"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).StopCapture(ctx, req.(*struct{}))
	}
	return interceptor(ctx, req, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc a [Server] implementation registers
// with a *grpc.Server, in the shape protoc-gen-go-grpc would generate.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SetPosition", Handler: handlerSetPosition},
		{MethodName: "SetTxPower", Handler: handlerSetTxPower},
		{MethodName: "SetSNR", Handler: handlerSetSNR},
		{MethodName: "SetLci", Handler: handlerSetLci},
		{MethodName: "SetCivicloc", Handler: handlerSetCivicloc},
		{MethodName: "LoadConfig", Handler: handlerLoadConfig},
		{MethodName: "ReloadConfig", Handler: handlerReloadConfig},
		{MethodName: "ListStations", Handler: handlerListStations},
		{MethodName: "StartCapture", Handler: handlerStartCapture},
		{MethodName: "StopCapture", Handler: handlerStopCapture},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wmediumd.proto",
}

// RegisterServer registers srv with s under this package's ServiceDesc.
func RegisterServer(s *grpc.Server, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the service over an existing gRPC connection, using this
// package's JSON codec in place of a protoc-generated stub.
type Client struct {
	cc *grpc.ClientConn
}

// NewClient wraps cc for calling the wmediumd RPC service.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	fullMethod := fmt.Sprintf("/%s/%s", serviceName, method)
	opt := grpc.CallContentSubtype(codecName)
	if err := c.cc.Invoke(ctx, fullMethod, req, resp, opt); err != nil {
		return status.Errorf(codes.Internal, "rpc: %s: %v", method, err)
	}
	return nil
}

// SetPosition calls the SetPosition RPC.
func (c *Client) SetPosition(ctx context.Context, req *SetPositionRequest) (*SetPositionResponse, error) {
	resp := new(SetPositionResponse)
	return resp, c.invoke(ctx, "SetPosition", req, resp)
}

// SetTxPower calls the SetTxPower RPC.
func (c *Client) SetTxPower(ctx context.Context, req *SetTxPowerRequest) (*SetTxPowerResponse, error) {
	resp := new(SetTxPowerResponse)
	return resp, c.invoke(ctx, "SetTxPower", req, resp)
}

// SetSNR calls the SetSNR RPC.
func (c *Client) SetSNR(ctx context.Context, req *SetSNRRequest) (*SetSNRResponse, error) {
	resp := new(SetSNRResponse)
	return resp, c.invoke(ctx, "SetSNR", req, resp)
}

// SetLci calls the SetLci RPC.
func (c *Client) SetLci(ctx context.Context, req *SetLciRequest) (*SetLciResponse, error) {
	resp := new(SetLciResponse)
	return resp, c.invoke(ctx, "SetLci", req, resp)
}

// SetCivicloc calls the SetCivicloc RPC.
func (c *Client) SetCivicloc(ctx context.Context, req *SetCivicRequest) (*SetCivicResponse, error) {
	resp := new(SetCivicResponse)
	return resp, c.invoke(ctx, "SetCivicloc", req, resp)
}

// LoadConfig calls the LoadConfig RPC.
func (c *Client) LoadConfig(ctx context.Context, req *LoadConfigRequest) (*LoadConfigResponse, error) {
	resp := new(LoadConfigResponse)
	return resp, c.invoke(ctx, "LoadConfig", req, resp)
}

// ReloadConfig calls the ReloadConfig RPC.
func (c *Client) ReloadConfig(ctx context.Context) (*ReloadConfigResponse, error) {
	resp := new(ReloadConfigResponse)
	return resp, c.invoke(ctx, "ReloadConfig", &ReloadConfigRequest{}, resp)
}

// ListStations calls the ListStations RPC.
func (c *Client) ListStations(ctx context.Context) (*ListStationsResponse, error) {
	resp := new(ListStationsResponse)
	return resp, c.invoke(ctx, "ListStations", &ListStationsRequest{}, resp)
}

// StartCapture calls the StartCapture RPC.
func (c *Client) StartCapture(ctx context.Context, req *StartCaptureRequest) (*StartCaptureResponse, error) {
	resp := new(StartCaptureResponse)
	return resp, c.invoke(ctx, "StartCapture", req, resp)
}

// StopCapture calls the StopCapture RPC.
func (c *Client) StopCapture(ctx context.Context) (*StopCaptureResponse, error) {
	resp := new(StopCaptureResponse)
	return resp, c.invoke(ctx, "StopCapture", &struct{}{}, resp)
}

package wire

import (
	"context"

	"google.golang.org/grpc"
)

const (
	linkServiceName    = "hax.HALink"
	monitorServiceName = "hax.HAMonitor"

	NotifyMethod             = "/" + linkServiceName + "/Notify"
	ReportProcessEventMethod = "/" + monitorServiceName + "/ReportProcessEvent"
)

// LinkServer receives HA notes sent over the link.
type LinkServer interface {
	Notify(context.Context, *NotifyRequest) (*NotifyResponse, error)
}

// LinkClient sends HA notes over the link.
type LinkClient interface {
	Notify(ctx context.Context, req *NotifyRequest, opts ...grpc.CallOption) (*NotifyResponse, error)
}

type linkClient struct {
	cc grpc.ClientConnInterface
}

func NewLinkClient(cc grpc.ClientConnInterface) LinkClient {
	return &linkClient{cc: cc}
}

func (c *linkClient) Notify(ctx context.Context, req *NotifyRequest, opts ...grpc.CallOption) (*NotifyResponse, error) {
	resp := new(NotifyResponse)

	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, NotifyMethod, req, resp, opts...); err != nil {
		return nil, err
	}

	return resp, nil
}

func notifyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(NotifyRequest)
	if err := dec(req); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(LinkServer).Notify(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: NotifyMethod,
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinkServer).Notify(ctx, req.(*NotifyRequest))
	}

	return interceptor(ctx, req, info, handler)
}

var linkServiceDesc = grpc.ServiceDesc{
	ServiceName: linkServiceName,
	HandlerType: (*LinkServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Notify", Handler: notifyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hax/wire",
}

func RegisterLinkServer(s grpc.ServiceRegistrar, srv LinkServer) {
	s.RegisterService(&linkServiceDesc, srv)
}

// MonitorServer accepts process lifecycle reports.
type MonitorServer interface {
	ReportProcessEvent(context.Context, *ProcessEventRequest) (*ProcessEventResponse, error)
}

// MonitorClient reports process lifecycle events to the monitor.
type MonitorClient interface {
	ReportProcessEvent(ctx context.Context, req *ProcessEventRequest, opts ...grpc.CallOption) (*ProcessEventResponse, error)
}

type monitorClient struct {
	cc grpc.ClientConnInterface
}

func NewMonitorClient(cc grpc.ClientConnInterface) MonitorClient {
	return &monitorClient{cc: cc}
}

func (c *monitorClient) ReportProcessEvent(ctx context.Context, req *ProcessEventRequest, opts ...grpc.CallOption) (*ProcessEventResponse, error) {
	resp := new(ProcessEventResponse)

	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, ReportProcessEventMethod, req, resp, opts...); err != nil {
		return nil, err
	}

	return resp, nil
}

func reportProcessEventHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(ProcessEventRequest)
	if err := dec(req); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(MonitorServer).ReportProcessEvent(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportProcessEventMethod,
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MonitorServer).ReportProcessEvent(ctx, req.(*ProcessEventRequest))
	}

	return interceptor(ctx, req, info, handler)
}

var monitorServiceDesc = grpc.ServiceDesc{
	ServiceName: monitorServiceName,
	HandlerType: (*MonitorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ReportProcessEvent", Handler: reportProcessEventHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hax/wire",
}

func RegisterMonitorServer(s grpc.ServiceRegistrar, srv MonitorServer) {
	s.RegisterService(&monitorServiceDesc, srv)
}

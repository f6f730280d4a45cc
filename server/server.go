package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi"
	"github.com/xxxsen/common/webapi/auth"
	"github.com/xxxsen/common/webapi/middleware"
	"github.com/xxxsen/ncfolder/server/handler/hostapi"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type Server struct {
	c      *serverConfig
	engine webapi.IWebEngine
}

func New(bind string, opts ...Option) (*Server, error) {
	c := applyOpts(opts...)
	if c.host == nil {
		return nil, fmt.Errorf("no host found")
	}
	svr := &Server{c: c}
	var err error
	svr.engine, err = webapi.NewEngine("/", bind, webapi.WithAuth(auth.MapUserMatch(c.userMap)), webapi.WithRegister(svr.initAPI))
	if err != nil {
		return nil, err
	}
	return svr, nil
}

func (s *Server) initAPI(router *gin.RouterGroup) {
	mustAuthMiddleware := middleware.MustAuthMiddleware()
	pluginHandler := hostapi.NewPluginHandler(s.c.host, s.c.roleOf)

	apiRouter := router.Group("/api", mustAuthMiddleware)
	{
		apiRouter.GET("/plugin/schema", pluginHandler.GetSchema)
		apiRouter.POST("/table/:table/insert", pluginHandler.InsertRow)
		apiRouter.POST("/table/:table/delete", pluginHandler.DeleteRow)
		apiRouter.POST("/action/:action", pluginHandler.InvokeAction)
	}
}

func (s *Server) Run() error {
	return s.engine.Run()
}

package pubindex

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RenderXML writes v as an HTTP 200 XML document with the given content type.
func RenderXML(c echo.Context, contentType string, v any) error {
	return RenderXMLStatus(c, http.StatusOK, contentType, v)
}

// RenderXMLStatus writes v as an XML document with a specific HTTP status code.
func RenderXMLStatus(c echo.Context, code int, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(code)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}

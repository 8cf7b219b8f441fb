package rest

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/modelserve/mserve/pkg/api/types/models"
	"github.com/modelserve/mserve/pkg/utils/archive"
)

func (c *client) getModelVersion(ctx context.Context, endpoint string, what string) (models.Version, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Version{}, err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return models.Version{}, err
	}
	defer resp.Body.Close()

	var ver models.Version
	if err := unmarshalJsonResponse(
		resp, &ver,
		MessageFor{
			Status4xx: fmt.Sprintf("model version %s is not found", what),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return models.Version{}, err
	}
	return ver, nil
}

func (c *client) FindModelVersion(ctx context.Context, name string, version *int64) (models.Version, error) {
	if version == nil {
		return c.getModelVersion(ctx, c.apipath("model", "version", url.PathEscape(name)), name)
	}
	v := strconv.FormatInt(*version, 10)
	return c.getModelVersion(
		ctx,
		c.apipath("model", "version", url.PathEscape(name), v),
		name+":"+v,
	)
}

func (c *client) GetModelVersion(ctx context.Context, id int64) (models.Version, error) {
	i := strconv.FormatInt(id, 10)
	return c.getModelVersion(ctx, c.apipath("model", "version", "id", i), "id="+i)
}

func (c *client) ListModelVersions(ctx context.Context) ([]models.Version, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apipath("model", "versions"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	vers := make([]models.Version, 0, 5)
	if err := unmarshalJsonResponse(
		resp, &vers,
		MessageFor{
			Status4xx: "invalid request",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}
	return vers, nil
}

func (c *client) DeleteModelVersion(ctx context.Context, id int64) error {
	i := strconv.FormatInt(id, 10)
	req, err := c.newRequest(ctx, http.MethodDelete, c.apipath("model", "version", "id", i), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return discardResponse(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("model version id=%s is not found", i),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}

// UploadModel sends a multipart request, which has parts "metadata" (json of models.Spec)
// and "payload" (tar.gz of payload files).
//
// Payload files are archived while the request is being sent.
// When the Client is created WithUploadProgress, a progress bar is drawn meanwhile.
func (c *client) UploadModel(ctx context.Context, upload models.Upload) (models.Version, error) {
	metadata, err := json.Marshal(upload.Spec)
	if err != nil {
		return models.Version{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r, w := io.Pipe()
	defer r.Close()
	mw := multipart.NewWriter(w)

	archived := make(chan archive.Progress, 1)
	go func() {
		defer close(archived)
		w.CloseWithError(func() error {
			if err := mw.WriteField("metadata", string(metadata)); err != nil {
				return err
			}
			if 0 < len(upload.Payload) {
				part, err := mw.CreateFormFile("payload", "payload.tar.gz")
				if err != nil {
					return err
				}
				gz := gzip.NewWriter(part)
				prog := archive.GoTar(ctx, upload.BaseDir, upload.Payload, gz)
				archived <- prog
				<-prog.Done()
				if err := prog.Error(); err != nil {
					return err
				}
				if err := gz.Close(); err != nil {
					return err
				}
			}
			return mw.Close()
		}())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.apipath("model", "upload"), r)
	if err != nil {
		return models.Version{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	type result struct {
		resp *http.Response
		err  error
	}
	sent := make(chan result, 1)
	go func() {
		resp, err := c.httpclient.Do(req)
		sent <- result{resp: resp, err: err}
	}()

	if prog, ok := <-archived; ok && c.progressOut != nil {
		c.showProgress(prog)
	}

	res := <-sent
	if res.err != nil {
		return models.Version{}, res.err
	}
	defer res.resp.Body.Close()

	var ver models.Version
	if err := unmarshalJsonResponse(
		res.resp, &ver,
		MessageFor{
			Status4xx: fmt.Sprintf("model %s is rejected by server (status code = %d)", upload.Spec.Name, res.resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", res.resp.StatusCode),
		},
	); err != nil {
		return models.Version{}, err
	}
	return ver, nil
}

func (c *client) showProgress(prog archive.Progress) {
	bar := pb.New64(prog.EstimatedTotalSize())
	bar.Set(pb.Bytes, true)
	bar.SetWriter(c.progressOut)
	if err := bar.Err(); err != nil {
		<-prog.Done()
		return
	}

	bar.Start()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			bar.SetCurrent(prog.ProgressedSize())
			continue
		case <-prog.Done():
			bar.SetCurrent(prog.ProgressedSize())
		}
		break
	}
	bar.Finish()
}

func (c *client) UploadTrainingData(ctx context.Context, data models.TrainingData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	u, err := url.Parse(c.apipath("training_data"))
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("modelVersionId", strconv.FormatInt(data.ModelVersionId, 10))
	u.RawQuery = q.Encode()

	req, err := c.newRequest(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return discardResponse(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("training data for model version id=%d is rejected by server (status code = %d)", data.ModelVersionId, resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}

func (c *client) GetProfilingStatus(ctx context.Context, modelVersionId int64) (models.Profiling, error) {
	i := strconv.FormatInt(modelVersionId, 10)
	req, err := c.newRequest(ctx, http.MethodGet, c.apipath("profiling", "status", i), nil)
	if err != nil {
		return models.Profiling{}, err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return models.Profiling{}, err
	}
	defer resp.Body.Close()

	var p models.Profiling
	if err := unmarshalJsonResponse(
		resp, &p,
		MessageFor{
			Status4xx: fmt.Sprintf("profiling of model version id=%s is not found", i),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return models.Profiling{}, err
	}
	return p, nil
}

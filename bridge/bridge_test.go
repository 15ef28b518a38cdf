package bridge

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kurobaex/native-bridge/classpath"
	"github.com/kurobaex/native-bridge/engine"
	"github.com/kurobaex/native-bridge/engine/plaintext"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/hostenv/heap"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

type fixture struct {
	h   *heap.Heap
	reg *schema.Registry
}

func newFixture(t *testing.T, opts ...classpath.Option) *fixture {
	t.Helper()
	reg := schema.MustNew()
	h := heap.New()
	require.NoError(t, classpath.Install(h, reg, opts...))
	return &fixture{h: h, reg: reg}
}

func (f *fixture) bridge(t *testing.T, eng engine.Engine, cfg *Config) *Bridge {
	t.Helper()
	b, err := New(f.reg, eng, cfg)
	require.NoError(t, err)
	return b
}

func (f *fixture) call(lib classpath.Library, req *classpath.Request) (*classpath.ThreadParsed, error) {
	return classpath.Call(context.Background(), f.h, f.reg, lib, req)
}

// libraryFunc lets a test tamper with the request objects before they reach
// the bridge.
type libraryFunc func(ctx context.Context, env hostenv.Env, parserContext, thread hostenv.Ref) hostenv.Ref

func (fn libraryFunc) ParseThreadPosts(ctx context.Context, env hostenv.Env, parserContext, thread hostenv.Ref) hostenv.Ref {
	return fn(ctx, env, parserContext, thread)
}

func (f *fixture) tamper(t *testing.T, b *Bridge, edit func(env hostenv.Env, parserContext, thread hostenv.Ref)) classpath.Library {
	return libraryFunc(func(ctx context.Context, env hostenv.Env, parserContext, thread hostenv.Ref) hostenv.Ref {
		edit(env, parserContext, thread)
		ref := b.ParseThreadPosts(ctx, env, parserContext, thread)
		assert.Zero(t, env.(*heap.Env).Pinned(), "long[] snapshots must be released")
		return ref
	})
}

func (f *fixture) firstPost(t *testing.T, env hostenv.Env, thread hostenv.Ref) hostenv.Ref {
	t.Helper()
	v, err := env.GetField(thread, schema.ThreadPostList.Name, f.reg.FieldSig(schema.ThreadPostList))
	require.NoError(t, err)
	arr, _ := v.AsObject()
	post, err := env.GetObjectArrayElement(arr, 0)
	require.NoError(t, err)
	return post
}

func (f *fixture) set(t *testing.T, env hostenv.Env, obj hostenv.Ref, field schema.FieldSpec, v hostenv.Value) {
	t.Helper()
	require.NoError(t, env.SetField(obj, field.Name, f.reg.FieldSig(field), v))
}

func ptr[T any](v T) *T {
	return &v
}

func request(posts ...classpath.PostRequest) *classpath.Request {
	return &classpath.Request{
		SiteName:    "4chan",
		BoardCode:   "g",
		ThreadID:    123,
		ThreadPosts: []int64{1, 2, 3},
		MyReplies:   []int64{2},
		Posts:       posts,
	}
}

// fixed returns an engine producing one comment with spans for every post.
func fixed(text string, spans ...model.Spannable) engine.Engine {
	return engine.PerPost(func(_ *model.ParserContext, post model.RawPost) *model.ParsedPost {
		return &model.ParsedPost{
			PostID:    post.PostID,
			PostSubID: post.PostSubID,
			Comment: &model.ParsedComment{
				OriginalText: *post.Comment,
				ParsedText:   text,
				Spannables:   spans,
			},
		}
	})
}

func hostException(t *testing.T, err error) *classpath.HostException {
	t.Helper()
	var exc *classpath.HostException
	require.ErrorAs(t, err, &exc)
	return exc
}

func TestParseThreadPosts(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	got, err := f.call(b, request(
		classpath.PostRequest{PostID: 1, Comment: ptr(">>2 nice")},
		classpath.PostRequest{PostID: 2},
	))
	require.NoError(t, err)
	require.Len(t, got.Posts, 2)
	assert.Nil(t, got.Posts[1])

	p := got.Posts[0]
	require.NotNil(t, p)
	assert.Equal(t, uint64(1), p.PostID)
	assert.Equal(t, uint64(0), p.PostSubID)
	assert.Equal(t, model.PostDescriptor{SiteName: "4chan", BoardCode: "g", ThreadNo: 123, PostNo: 1}, p.Descriptor)
	require.NotNil(t, p.Comment)
	assert.Equal(t, ">>2 nice", p.Comment.OriginalText)
	assert.Equal(t, ">>2 nice", p.Comment.ParsedText)
	assert.Equal(t, []model.Spannable{{Start: 0, Length: 3, Data: &model.Quote{PostNo: 2}}}, p.Comment.Spannables)
}

func TestResultAlignment(t *testing.T) {
	tests := []struct {
		name  string
		posts []classpath.PostRequest
		want  []bool
	}{
		{name: "empty thread", posts: nil, want: []bool{}},
		{name: "single post", posts: []classpath.PostRequest{{PostID: 1, Comment: ptr("a")}}, want: []bool{true}},
		{
			name: "mixed",
			posts: []classpath.PostRequest{
				{PostID: 1},
				{PostID: 2, PostSubID: 1, Comment: ptr("")},
				{PostID: 3},
			},
			want: []bool{false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.bridge(t, plaintext.New(), nil)

			got, err := f.call(b, request(tt.posts...))
			require.NoError(t, err)
			require.Len(t, got.Posts, len(tt.want))
			for i, present := range tt.want {
				if !present {
					assert.Nil(t, got.Posts[i], "post %d", i)
					continue
				}
				require.NotNil(t, got.Posts[i], "post %d", i)
				assert.Equal(t, uint64(tt.posts[i].PostID), got.Posts[i].PostID)
				assert.Equal(t, uint64(tt.posts[i].PostSubID), got.Posts[i].PostSubID)
			}
		})
	}
}

func TestAbsentResults(t *testing.T) {
	f := newFixture(t)
	eng := engine.PerPost(func(_ *model.ParserContext, post model.RawPost) *model.ParsedPost {
		switch post.PostID {
		case 1:
			return nil
		case 2:
			return &model.ParsedPost{PostID: 2}
		}
		return &model.ParsedPost{PostID: post.PostID, Comment: &model.ParsedComment{ParsedText: "x"}}
	})
	b := f.bridge(t, eng, nil)

	before := testutil.ToFloat64(postsAbsent)
	got, err := f.call(b, request(
		classpath.PostRequest{PostID: 1, Comment: ptr("a")},
		classpath.PostRequest{PostID: 2, Comment: ptr("b")},
		classpath.PostRequest{PostID: 3, Comment: ptr("c")},
	))
	require.NoError(t, err)
	require.Len(t, got.Posts, 3)
	assert.Nil(t, got.Posts[0])
	assert.Nil(t, got.Posts[1])
	require.NotNil(t, got.Posts[2])
	assert.Empty(t, got.Posts[2].Comment.Spannables)
	assert.Equal(t, 2.0, testutil.ToFloat64(postsAbsent)-before)
}

func TestDescriptorOverrides(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	got, err := f.call(b, request(
		classpath.PostRequest{PostID: 5, PostSubID: 2, Comment: ptr("x"), SiteName: ptr("lainchan"), BoardCode: ptr("tech"), ThreadID: ptr(int64(77))},
		classpath.PostRequest{PostID: 6, Comment: ptr("y"), SiteName: ptr("")},
	))
	require.NoError(t, err)
	require.Len(t, got.Posts, 2)
	assert.Equal(t, model.PostDescriptor{SiteName: "lainchan", BoardCode: "tech", ThreadNo: 77, PostNo: 5, PostSubNo: 2}, got.Posts[0].Descriptor)
	assert.Equal(t, model.PostDescriptor{SiteName: "4chan", BoardCode: "g", ThreadNo: 123, PostNo: 6}, got.Posts[1].Descriptor)
}

func TestOverrideFieldsAbsentFromHost(t *testing.T) {
	f := newFixture(t, classpath.WithoutFields(schema.PostSiteName, schema.PostBoardCode, schema.PostThreadID))
	b := f.bridge(t, plaintext.New(), nil)

	got, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
	require.NoError(t, err)
	require.NotNil(t, got.Posts[0])
	assert.Equal(t, "4chan/g/123/1:0", got.Posts[0].Descriptor.String())
}

func TestAllSpannableVariants(t *testing.T) {
	data := []model.SpannableData{
		&model.Quote{PostNo: 1},
		&model.DeadQuote{PostNo: 99},
		&model.URLLink{Link: "https://example.org"},
		&model.BoardLink{BoardCode: "a"},
		&model.SearchLink{BoardCode: "a", SearchQuery: "q"},
		&model.ThreadLink{BoardCode: "g", ThreadNo: 10, PostNo: 11},
		&model.Spoiler{},
		&model.GreenText{},
		&model.BoldText{},
		&model.FontSize{Size: "large"},
		&model.FontWeight{Weight: "700"},
		&model.Monospace{},
		&model.TextForegroundColorRaw{ColorHex: "#ff0000"},
		&model.TextBackgroundColorRaw{ColorHex: "#00ff00"},
		&model.TextForegroundColorID{ColorID: 3},
		&model.TextBackgroundColorID{ColorID: -1},
	}
	require.Len(t, data, model.NumSpanKinds)

	spans := make([]model.Spannable, len(data))
	for i, d := range data {
		spans[i] = model.Spannable{Start: uint32(i), Length: 1, Data: d}
	}

	f := newFixture(t)
	b := f.bridge(t, fixed("0123456789abcdef", spans...), nil)

	got, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("raw")}))
	require.NoError(t, err)
	require.NotNil(t, got.Posts[0])
	assert.Equal(t, "raw", got.Posts[0].Comment.OriginalText)
	assert.Equal(t, spans, got.Posts[0].Comment.Spannables)
}

func TestMissingThreadID(t *testing.T) {
	f := newFixture(t, classpath.WithoutFields(schema.CtxThreadID))
	b := f.bridge(t, plaintext.New(), nil)

	_, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
	exc := hostException(t, err)
	assert.Equal(t, heap.RuntimeException, exc.Class)
	assert.Contains(t, exc.Message, "field_missing")
	assert.Contains(t, exc.Message, "threadId")
}

func TestNullArguments(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	env := f.h.Attach()
	defer env.Detach()

	ref := b.ParseThreadPosts(context.Background(), env, hostenv.Null, hostenv.Null)
	assert.True(t, ref.IsNull())
	class, msg, ok := env.Thrown()
	require.True(t, ok)
	assert.Equal(t, heap.RuntimeException, class)
	assert.Contains(t, msg, "field_missing")
}

func TestCustomExceptionClass(t *testing.T) {
	f := newFixture(t, classpath.WithoutFields(schema.CtxThreadID))

	b := f.bridge(t, plaintext.New(), &Config{ExceptionClass: heap.IllegalArgumentException})
	_, err := f.call(b, request())
	assert.Equal(t, heap.IllegalArgumentException, hostException(t, err).Class)

	b = f.bridge(t, plaintext.New(), &Config{ExceptionClass: "com/example/Missing"})
	_, err = f.call(b, request())
	assert.Equal(t, heap.RuntimeException, hostException(t, err).Class)
}

func TestInvalidContext(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	lib := f.tamper(t, b, func(env hostenv.Env, parserContext, _ hostenv.Ref) {
		empty, err := env.NewString("")
		require.NoError(t, err)
		f.set(t, env, parserContext, schema.CtxSiteName, hostenv.Object(empty))
	})
	_, err := f.call(lib, request())
	assert.Contains(t, hostException(t, err).Message, "invalid_input")
}

func TestNegativeIDs(t *testing.T) {
	tests := []struct {
		name string
		edit func(t *testing.T, f *fixture, env hostenv.Env, parserContext, thread hostenv.Ref)
	}{
		{
			name: "post id",
			edit: func(t *testing.T, f *fixture, env hostenv.Env, _, thread hostenv.Ref) {
				f.set(t, env, f.firstPost(t, env, thread), schema.PostID, hostenv.Long(-1))
			},
		},
		{
			name: "thread posts",
			edit: func(t *testing.T, f *fixture, env hostenv.Env, parserContext, _ hostenv.Ref) {
				f.set(t, env, parserContext, schema.CtxThreadPosts, hostenv.Object(f.h.NewLongArray([]int64{1, -2})))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.bridge(t, plaintext.New(), nil)
			lib := f.tamper(t, b, func(env hostenv.Env, parserContext, thread hostenv.Ref) {
				tt.edit(t, f, env, parserContext, thread)
			})

			_, err := f.call(lib, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
			assert.Contains(t, hostException(t, err).Message, "overflow")
		})
	}
}

func TestNullPostElement(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	lib := f.tamper(t, b, func(env hostenv.Env, _, thread hostenv.Ref) {
		v, err := env.GetField(thread, schema.ThreadPostList.Name, f.reg.FieldSig(schema.ThreadPostList))
		require.NoError(t, err)
		arr, _ := v.AsObject()
		require.NoError(t, env.SetObjectArrayElement(arr, 0, hostenv.Null))
	})
	_, err := f.call(lib, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
	assert.Contains(t, hostException(t, err).Message, "field_missing")
}

func TestDegradedComment(t *testing.T) {
	t.Run("field absent", func(t *testing.T) {
		f := newFixture(t, classpath.WithoutFields(schema.PostComment))
		b := f.bridge(t, plaintext.New(), nil)

		before := testutil.ToFloat64(commentsDegraded)
		got, err := f.call(b, request(
			classpath.PostRequest{PostID: 1, Comment: ptr("x")},
			classpath.PostRequest{PostID: 2, Comment: ptr("y")},
		))
		require.NoError(t, err)
		assert.Equal(t, []*classpath.PostParsed{nil, nil}, got.Posts)
		assert.Equal(t, 2.0, testutil.ToFloat64(commentsDegraded)-before)
	})

	t.Run("unpaired surrogate", func(t *testing.T) {
		f := newFixture(t)
		b := f.bridge(t, plaintext.New(), nil)

		lib := f.tamper(t, b, func(env hostenv.Env, _, thread hostenv.Ref) {
			bad := f.h.NewStringUTF16([]uint16{'a', 0xD800})
			f.set(t, env, f.firstPost(t, env, thread), schema.PostComment, hostenv.Object(bad))
		})

		before := testutil.ToFloat64(commentsDegraded)
		got, err := f.call(lib, request(
			classpath.PostRequest{PostID: 1, Comment: ptr("x")},
			classpath.PostRequest{PostID: 2, Comment: ptr(">>1")},
		))
		require.NoError(t, err)
		require.Len(t, got.Posts, 2)
		assert.Nil(t, got.Posts[0])
		require.NotNil(t, got.Posts[1])
		assert.Equal(t, ">>1", got.Posts[1].Comment.ParsedText)
		assert.Equal(t, 1.0, testutil.ToFloat64(commentsDegraded)-before)
	})
}

func TestEngineFailures(t *testing.T) {
	tests := []struct {
		name string
		eng  engine.Engine
		kind string
	}{
		{
			name: "panic",
			eng: engine.Func(func(context.Context, *model.ParserContext, *model.RawThread) ([]*model.ParsedPost, error) {
				panic("boom")
			}),
			kind: "internal_fault",
		},
		{
			name: "error",
			eng: engine.Func(func(context.Context, *model.ParserContext, *model.RawThread) ([]*model.ParsedPost, error) {
				return nil, fmt.Errorf("parser unavailable")
			}),
			kind: "engine_contract",
		},
		{
			name: "short result",
			eng: engine.Func(func(context.Context, *model.ParserContext, *model.RawThread) ([]*model.ParsedPost, error) {
				return nil, nil
			}),
			kind: "engine_contract",
		},
		{
			name: "nil spannable data",
			eng:  fixed("x", model.Spannable{Length: 1}),
			kind: "invalid_input",
		},
		{
			name: "span offset overflow",
			eng:  fixed("x", model.Spannable{Start: math.MaxUint32, Data: &model.BoldText{}}),
			kind: "overflow",
		},
		{
			name: "id overflow",
			eng:  fixed("x", model.Spannable{Length: 1, Data: &model.Quote{PostNo: math.MaxUint64}}),
			kind: "overflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.bridge(t, tt.eng, nil)

			before := testutil.ToFloat64(faultsTotal.WithLabelValues(tt.kind))
			_, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
			exc := hostException(t, err)
			assert.Equal(t, heap.RuntimeException, exc.Class)
			assert.Contains(t, exc.Message, tt.kind)
			assert.Equal(t, 1.0, testutil.ToFloat64(faultsTotal.WithLabelValues(tt.kind))-before)
		})
	}
}

func TestSpanOutOfRangeKept(t *testing.T) {
	f := newFixture(t)
	span := model.Spannable{Start: 2, Length: 5, Data: &model.BoldText{}}
	b := f.bridge(t, fixed("abc", span), nil)

	before := testutil.ToFloat64(spansOutOfRange)
	got, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("abc")}))
	require.NoError(t, err)
	assert.Equal(t, []model.Spannable{span}, got.Posts[0].Comment.Spannables)
	assert.Equal(t, 1.0, testutil.ToFloat64(spansOutOfRange)-before)
}

func TestMissingVariantClass(t *testing.T) {
	f := newFixture(t, classpath.Without(schema.SpannableVariants[model.KindBoldText]))
	b := f.bridge(t, fixed("abc", model.Spannable{Length: 1, Data: &model.BoldText{}}), nil)

	_, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("abc")}))
	exc := hostException(t, err)
	assert.Equal(t, heap.RuntimeException, exc.Class)
	assert.Contains(t, exc.Message, "host_construction")
	assert.Contains(t, exc.Message, "BoldText")
}

func TestConstructorExceptionKept(t *testing.T) {
	f := newFixture(t, classpath.Without(schema.PostDescriptor))

	def := heap.ClassDef{Name: f.reg.ClassName(schema.PostDescriptor), Super: heap.ObjectClass}
	for _, field := range schema.FieldsOf(schema.PostDescriptor) {
		def.Fields = append(def.Fields, heap.FieldDef{Name: field.Name, Sig: f.reg.FieldSig(field)})
	}
	def.Ctors = []heap.CtorDef{{
		Sig:    f.reg.CtorSig(schema.PostDescCtor),
		Fields: []string{schema.PostThread.Name, schema.PostNo.Name, schema.PostSubNo.Name},
		Check:  func([]any) error { return fmt.Errorf("post is archived") },
	}}
	f.h.MustDefine(def)

	b := f.bridge(t, plaintext.New(), nil)
	_, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
	exc := hostException(t, err)
	assert.Equal(t, heap.IllegalArgumentException, exc.Class)
	assert.Contains(t, exc.Message, "post is archived")
}

func TestVerify(t *testing.T) {
	f := newFixture(t)
	env := f.h.Attach()
	defer env.Detach()

	assert.NoError(t, f.bridge(t, plaintext.New(), nil).Verify(env))

	err := f.bridge(t, plaintext.New(), &Config{ExceptionClass: "com/example/Missing"}).Verify(env)
	assert.ErrorContains(t, err, "com/example/Missing")
	assert.False(t, env.ExceptionCheck())

	drifted := newFixture(t, classpath.Without(schema.ThreadDescriptor), classpath.WithoutFields(schema.SpanData))
	denv := drifted.h.Attach()
	defer denv.Detach()
	err = drifted.bridge(t, plaintext.New(), nil).Verify(denv)
	assert.ErrorContains(t, err, "ThreadDescriptor")
	assert.ErrorContains(t, err, "spannableData")
	assert.False(t, denv.ExceptionCheck())
}

func TestNew(t *testing.T) {
	_, err := New(nil, plaintext.New(), nil)
	assert.ErrorContains(t, err, "not_initialized")

	_, err = New(schema.MustNew(), nil, nil)
	assert.ErrorContains(t, err, "not_initialized")
}

func TestCallsCounted(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	ok := testutil.ToFloat64(callsTotal.WithLabelValues("ok"))
	failed := testutil.ToFloat64(callsTotal.WithLabelValues("error"))

	_, err := f.call(b, request())
	require.NoError(t, err)

	env := f.h.Attach()
	defer env.Detach()
	b.ParseThreadPosts(context.Background(), env, hostenv.Null, hostenv.Null)

	assert.Equal(t, 1.0, testutil.ToFloat64(callsTotal.WithLabelValues("ok"))-ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(callsTotal.WithLabelValues("error"))-failed)
}

func TestEmptyIDSets(t *testing.T) {
	f := newFixture(t)
	b := f.bridge(t, plaintext.New(), nil)

	req := request(classpath.PostRequest{PostID: 1, Comment: ptr(">>1 hi")})
	req.ThreadPosts = nil
	req.MyReplies = []int64{}

	got, err := f.call(b, req)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1)
	require.NotNil(t, got.Posts[0].Comment)
	assert.Equal(t, []model.Spannable{{Start: 0, Length: 3, Data: &model.DeadQuote{PostNo: 1}}},
		got.Posts[0].Comment.Spannables)
}

func TestFailedCallMarksSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newFixture(t)
	b := f.bridge(t, engine.Func(func(context.Context, *model.ParserContext, *model.RawThread) ([]*model.ParsedPost, error) {
		panic("boom")
	}), nil)

	_, err := f.call(b, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
	hostException(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ParseThreadPosts", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("error.kind", "internal_fault"))
}

func TestZeroIDs(t *testing.T) {
	tests := []struct {
		name  string
		field schema.FieldSpec
		post  bool
	}{
		{name: "thread id", field: schema.CtxThreadID},
		{name: "post id", field: schema.PostID, post: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.bridge(t, plaintext.New(), nil)
			lib := f.tamper(t, b, func(env hostenv.Env, parserContext, thread hostenv.Ref) {
				obj := parserContext
				if tt.post {
					obj = f.firstPost(t, env, thread)
				}
				f.set(t, env, obj, tt.field, hostenv.Long(0))
			})
			_, err := f.call(lib, request(classpath.PostRequest{PostID: 1, Comment: ptr("x")}))
			assert.Contains(t, hostException(t, err).Message, "invalid_input")
		})
	}

	// Sub id 0 is the default and stays valid.
	f := newFixture(t)
	got, err := f.call(f.bridge(t, plaintext.New(), nil), request(classpath.PostRequest{PostID: 1, PostSubID: 0, Comment: ptr("x")}))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Posts[0].PostSubID)
}
